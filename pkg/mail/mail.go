package mail

import (
	"context"
	"errors"
	"fmt"
)

// Email is a fully-prepared message ready for dispatch.
type Email struct {
	Subject     string
	HTML        string
	Text        string
	From        string
	ReplyTo     string
	To          []string
	CC          []string
	Attachments []Attachment
}

// Attachment is one file carried by an outgoing email.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Sender is the delivery collaborator. Implementations must not assume
// any side effects beyond sending.
type Sender interface {
	Send(ctx context.Context, email *Email) error
}

var (
	// ErrNoRecipient indicates no recipient was specified.
	ErrNoRecipient = errors.New("email must have at least one recipient")

	// ErrNoSubject indicates no subject was provided.
	ErrNoSubject = errors.New("email must have a subject")

	// ErrSendFailed indicates the delivery collaborator reported a failure.
	ErrSendFailed = errors.New("failed to send email")
)

// Validate checks the minimal shape required before dispatch.
func (e *Email) Validate() error {
	if len(e.To) == 0 {
		return ErrNoRecipient
	}
	if e.Subject == "" {
		return ErrNoSubject
	}
	return nil
}

// Recipient formats a name and email into RFC 5322 address form. Without a
// name it returns the bare address.
func Recipient(name, email string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}
