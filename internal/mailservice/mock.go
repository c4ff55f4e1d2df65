package mailservice

import (
	"sync"

	"github.com/go-mail/mail/v2"
)

// MockDialer records messages instead of delivering them.
type MockDialer struct {
	mu       sync.Mutex
	Messages []*mail.Message
	Err      error
}

func (d *MockDialer) DialAndSend(m ...*mail.Message) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.Err != nil {
		return d.Err
	}

	d.Messages = append(d.Messages, m...)
	return nil
}

// NewMockMailService returns a MailService whose sends are captured by the
// given dialer.
func NewMockMailService(owner string, dialer *MockDialer) *MailService {
	return &MailService{
		m: &Mail{
			dialer: dialer,
			parser: NewTemplate(),
			sender: "no-reply@example.com",
		},
		owner: owner,
	}
}
