package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v4"
)

type Email struct {
	Subject string
	Body    string
	From    string
	To      []string
}

type Mailer interface {
	SendMail(e *Email) error
	SendPasswordResetEmail(to, link string) error
}

type Mailgun struct {
	domain  string
	apiKey  string
	apiBase string
	from    string
}

func NewMailer(domain, apiKey, apiBase, from string) *Mailgun {
	return &Mailgun{
		domain:  domain,
		apiKey:  apiKey,
		apiBase: apiBase,
		from:    from,
	}
}

func (m *Mailgun) SendMail(e *Email) error {
	mg := mailgun.NewMailgun(m.domain, m.apiKey)
	mg.SetAPIBase(m.apiBase)

	message := mailgun.NewMessage(e.From, e.Subject, e.Body, e.To...)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	_, _, err := mg.Send(ctx, message)
	if err != nil {
		return err
	}

	return nil
}

func (m *Mailgun) SendPasswordResetEmail(to, link string) error {
	body := fmt.Sprintf("We received a request to reset your password.\n\n"+
		"Follow the link below to choose a new one. The link expires in one hour.\n\n%s\n\n"+
		"If you did not request this, you can ignore this email.", link)

	return m.SendMail(&Email{
		Subject: "Reset your password",
		Body:    body,
		From:    m.from,
		To:      []string{to},
	})
}
