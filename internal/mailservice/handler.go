package mailservice

import (
	"fmt"
)

// NewMailService wires a mailer that delivers contact-page messages to the
// site owner's address.
func NewMailService(host, username, password, sender, owner string, port int) *MailService {
	return &MailService{
		m:     NewMailer(host, port, username, password, sender, NewTemplate()),
		owner: owner,
	}
}

type ContactMessage struct {
	Name    string
	Email   string
	Message string
}

// SendContactMessage delivers a contact-form submission to the site owner.
// The send is synchronous; the caller decides how a delivery failure is
// reported to the visitor.
func (s *MailService) SendContactMessage(msg *ContactMessage) error {
	err := s.m.send(s.owner, msg, "contact_message.html")
	if err != nil {
		return fmt.Errorf("could not send contact message: %w", err)
	}

	return nil
}
