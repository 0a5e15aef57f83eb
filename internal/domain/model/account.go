//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	minPasswordLen = 8
	maxPasswordLen = 256
)

// Account is a portal account. IdentityKey ties the row to the principal's
// stable identifier (OIDC subject for federated logins, the account ID for
// password accounts); Role is stored in string form since historical rows
// may carry either the bare or the "ROLE_"-prefixed spelling.
type Account struct {
	ID                 string    `json:"id"                   db:"id"`
	IdentityKey        string    `json:"identity_key"         db:"identity_key"`
	Email              string    `json:"email"                db:"email"`
	DisplayName        string    `json:"display_name"         db:"display_name"`
	Role               string    `json:"role"                 db:"role"`
	PasswordHash       string    `json:"-"                    db:"password_hash"`
	MustChangePassword bool      `json:"must_change_password" db:"must_change_password"`
	CreatedAt          time.Time `json:"created_at"           db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"           db:"updated_at"`
}

// CreateAccountRequest represents parameters to create an Account.
type CreateAccountRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
	// Role is the initial role; empty means the least privileged one.
	Role string `json:"role,omitempty"`
	// MustChangePassword marks accounts provisioned by an admin with a
	// temporary password.
	MustChangePassword bool `json:"must_change_password,omitempty"`
}

// Validate checks the create request fields.
func (r *CreateAccountRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Email == "" {
		return errors.New("email is required")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return errors.New("email is not a valid address")
	}
	if err := ValidatePassword(r.Password); err != nil {
		return err
	}
	r.DisplayName = strings.TrimSpace(r.DisplayName)
	return nil
}

// ValidatePassword checks password length bounds.
func ValidatePassword(pw string) error {
	if utf8.RuneCountInString(pw) < minPasswordLen {
		return errors.New("password must be at least 8 characters")
	}
	if utf8.RuneCountInString(pw) > maxPasswordLen {
		return errors.New("password is too long")
	}
	return nil
}
