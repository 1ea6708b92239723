package contact

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
)

const maxFieldLength = 5000

// Message is one contact form submission.
type Message struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Normalize trims surrounding whitespace from every field.
func (m *Message) Normalize() {
	m.Name = strings.TrimSpace(m.Name)
	m.Email = strings.TrimSpace(m.Email)
	m.Message = strings.TrimSpace(m.Message)
}

// Validate checks that every field is present and the email parses.
func (m *Message) Validate() error {
	switch {
	case m.Name == "":
		return errors.New("name is required")
	case m.Email == "":
		return errors.New("email is required")
	case m.Message == "":
		return errors.New("message is required")
	case len(m.Name) > maxFieldLength || len(m.Email) > maxFieldLength || len(m.Message) > maxFieldLength:
		return errors.New("submission is too long")
	}
	if _, err := mail.ParseAddress(m.Email); err != nil {
		return errors.New("email is invalid")
	}
	return nil
}

// Text renders the message sent to the chat.
func (m *Message) Text() string {
	return fmt.Sprintf("📬 Portfolio Contact:\nName: %s\nEmail: %s\nMessage: %s", m.Name, m.Email, m.Message)
}
