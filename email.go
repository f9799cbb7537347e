package main

import (
	"io"

	"github.com/go-gomail/gomail"
)

// ---------------------------------------------------------------------------
// Email
// ---------------------------------------------------------------------------

// Attachment is a rendered document kept in memory.
type Attachment struct {
	Filename string
	Data     []byte
}

// newMessage builds the delivery message with the documents attached.
func newMessage(cfg *Config, subject string, attachments ...Attachment) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", cfg.Email.From)
	msg.SetHeader("To", cfg.Email.To)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", "Edição em anexo.<br>")

	for _, a := range attachments {
		data := a.Data
		msg.Attach(a.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		}))
	}
	return msg
}

// sendEmail sends the generated PDFs via SMTP.
func sendEmail(cfg *Config, subject string, attachments ...Attachment) error {
	dialer := gomail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password)
	return dialer.DialAndSend(newMessage(cfg, subject, attachments...))
}
