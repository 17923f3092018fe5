package models

import (
	"fmt"
	"strings"

	"certgen/pkg/errors"
)

// Participant represents one certificate recipient parsed from a CSV row
type Participant struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
}

// FullName returns the name printed on the certificate
func (p *Participant) FullName() string {
	return p.FirstName + " " + p.LastName
}

// FileName returns the deterministic certificate file name for the participant
func (p *Participant) FileName() string {
	return fmt.Sprintf("%s_%s.pdf", p.FirstName, p.LastName)
}

// Validate checks that all required fields are present and usable as a file name
func (p *Participant) Validate() error {
	if strings.TrimSpace(p.FirstName) == "" {
		return fmt.Errorf("%w: missing first name", errors.ErrInvalidInput)
	}
	if strings.TrimSpace(p.LastName) == "" {
		return fmt.Errorf("%w: missing last name", errors.ErrInvalidInput)
	}
	if strings.TrimSpace(p.Email) == "" {
		return fmt.Errorf("%w: missing email", errors.ErrInvalidInput)
	}
	// Names become file names, so path separators are corrupt input
	for _, field := range []string{p.FirstName, p.LastName} {
		if strings.ContainsAny(field, "/\\\x00") {
			return fmt.Errorf("%w: name contains path characters", errors.ErrInvalidInput)
		}
	}
	return nil
}
