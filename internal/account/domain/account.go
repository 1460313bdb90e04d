package domain

import (
	"errors"
	"strings"
	"time"
)

type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	BusinessName string    `json:"business_name"`
	OwnerName    string    `json:"owner_name"`
	CreatedAt    time.Time `json:"created_at"`
}

func (a Account) Validate() error {
	switch {
	case strings.TrimSpace(a.ID) == "":
		return errors.New("id is required")
	case strings.TrimSpace(a.Email) == "":
		return errors.New("email is required")
	case strings.TrimSpace(a.BusinessName) == "":
		return errors.New("business_name is required")
	case strings.TrimSpace(a.OwnerName) == "":
		return errors.New("owner_name is required")
	}
	return nil
}

// NormalizeEmail is the form emails are stored and compared in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SessionRecord is the persisted pointer to the signed-in account.
type SessionRecord struct {
	AccountID string    `json:"account_id"`
	StartedAt time.Time `json:"started_at"`
}

func (s SessionRecord) Validate() error {
	if strings.TrimSpace(s.AccountID) == "" {
		return errors.New("account_id is required")
	}
	return nil
}

// Session is a resolved session handed to request handlers.
type Session struct {
	Account   Account
	StartedAt time.Time
}
