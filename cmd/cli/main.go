package main

import (
	"fmt"
	"os"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"

	authsvc "contactly/internal/platform/auth"
	contactsvc "contactly/internal/platform/contact"
	"contactly/pkg/utils"
)

var (
	apiBaseURL string
	authToken  string
)

type ResponseError struct {
	Message string `json:"error"`
	Kind    string `json:"kind"`
}

var apiServiceBase = func() *resty.Client {
	client := resty.New().
		SetBaseURL(apiBaseURL).
		SetHeader("Accept", "application/json").
		SetError(&ResponseError{}).
		OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
			if resp.StatusCode() >= 400 {
				return fmt.Errorf("%s", resp.Error().(*ResponseError).Message)
			}

			return nil
		})

	if authToken != "" {
		client.SetAuthToken(authToken)
	}
	return client
}

var rootCmd = &cobra.Command{
	Use:   "contactly",
	Short: "Contactly CLI",
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userRegisterCmd = &cobra.Command{
	Use:   "register <email> <first-name> <last-name> <role>",
	Short: "Register a new user with a generated password",
	Args:  cobra.ExactArgs(4),
	Run: func(cmd *cobra.Command, args []string) {
		password := utils.GenerateRandomString(12)

		resp, err := apiServiceBase().R().
			SetBody(map[string]string{
				"email":     args[0],
				"password":  password,
				"firstName": args[1],
				"lastName":  args[2],
				"role":      args[3],
			}).
			SetResult(&authsvc.AuthResponse{}).
			Post("/auth/register")

		if err != nil {
			fmt.Println("Error:", err)
			return
		}

		result := resp.Result().(*authsvc.AuthResponse)

		fmt.Println("User ID  :", result.User.ID)
		fmt.Println("Email    :", result.User.Email)
		fmt.Println("Role     :", result.User.Role)
		fmt.Println("Password :", password)
	},
}

var userLoginCmd = &cobra.Command{
	Use:   "login <email> <password>",
	Short: "Sign in and print a bearer token",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		resp, err := apiServiceBase().R().
			SetBody(map[string]string{
				"email":    args[0],
				"password": args[1],
			}).
			SetResult(&authsvc.AuthResponse{}).
			Post("/auth/login")

		if err != nil {
			fmt.Println("Error:", err)
			return
		}

		result := resp.Result().(*authsvc.AuthResponse)

		fmt.Println("User ID :", result.User.ID)
		fmt.Println("Token   :", result.Token)
	},
}

var contactCmd = &cobra.Command{
	Use:   "contact",
	Short: "Manage contacts",
}

var contactListCmd = &cobra.Command{
	Use:   "list",
	Short: "List contacts",
	Run: func(cmd *cobra.Command, args []string) {
		search, _ := cmd.Flags().GetString("search")
		page, _ := cmd.Flags().GetInt("page")

		resp, err := apiServiceBase().R().
			SetQueryParam("search", search).
			SetQueryParam("page", fmt.Sprint(page)).
			SetResult(&contactsvc.ContactList{}).
			Get("/contact/contacts")

		if err != nil {
			fmt.Println("Error:", err)
			return
		}

		result := resp.Result().(*contactsvc.ContactList)

		for _, contact := range result.Contacts {
			fmt.Printf("%s  %s %s  <%s>  %s\n", contact.ID, contact.FirstName, contact.LastName, contact.Email, contact.Role)
		}
		fmt.Printf("\nPage %d of %d (%d contacts)\n",
			result.Pagination.CurrentPage, result.Pagination.TotalPages, result.Pagination.TotalContacts)
	},
}

var contactExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export contacts to the object store",
	Run: func(cmd *cobra.Command, args []string) {
		search, _ := cmd.Flags().GetString("search")

		type exportResult struct {
			Key string `json:"key"`
		}

		resp, err := apiServiceBase().R().
			SetQueryParam("search", search).
			SetResult(&exportResult{}).
			Post("/contact/contacts/export")

		if err != nil {
			fmt.Println("Error:", err)
			return
		}

		fmt.Println("Export key:", resp.Result().(*exportResult).Key)
	},
}

func main() {
	userCmd.AddCommand(userRegisterCmd)
	userCmd.AddCommand(userLoginCmd)
	contactListCmd.Flags().String("search", "", "search term")
	contactListCmd.Flags().Int("page", 1, "page number")
	contactExportCmd.Flags().String("search", "", "search term")
	contactCmd.AddCommand(contactListCmd)
	contactCmd.AddCommand(contactExportCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(contactCmd)

	rootCmd.PersistentFlags().StringVarP(&apiBaseURL, "url", "u", "http://localhost:3000/api", "API base URL")
	rootCmd.PersistentFlags().StringVarP(&authToken, "token", "t", "", "Bearer token")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
