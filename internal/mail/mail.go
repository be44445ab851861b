package mail

import (
	"fmt"

	gomail "github.com/wneessen/go-mail"
)

// Job is one outbound email, carried through the mail queue and delivered
// by the mail worker.
type Job struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Sender delivers mail jobs over SMTP with STARTTLS.
type Sender struct {
	cfg SMTPConfig
}

func NewSender(cfg SMTPConfig) *Sender {
	return &Sender{cfg: cfg}
}

func (s *Sender) Send(job Job) error {
	msg := gomail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return fmt.Errorf("set mail sender failed: %w", err)
	}
	if err := msg.To(job.To); err != nil {
		return fmt.Errorf("set mail recipient failed: %w", err)
	}
	msg.Subject(job.Subject)
	msg.SetBodyString(gomail.TypeTextHTML, job.HTML)

	client, err := gomail.NewClient(
		s.cfg.Host,
		gomail.WithPort(s.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.cfg.Username),
		gomail.WithPassword(s.cfg.Password),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	)
	if err != nil {
		return fmt.Errorf("build smtp client failed: %w", err)
	}
	defer client.Close()

	if err := client.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail failed: %w", err)
	}
	return nil
}
