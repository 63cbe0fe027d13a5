// Package validation holds the input schemas checked before any request leaves the client.
// Each check returns normalized data plus a field-error map; a nil map means the input is valid.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/verrloren/hackathon-evrz/internal/apperr"
)

// FieldErrors maps a form field to its message.
type FieldErrors map[string]string

// Err converts non-empty field errors into an apperr validation error.
func (f FieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}
	return apperr.Validation("Invalid fields", f)
}

const minPasswordLen = 6

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// RegisterData is a registration candidate.
type RegisterData struct {
	Name     string
	Email    string
	Password string
}

// Register checks a registration candidate. Email is trimmed and lowercased; the password is left as typed.
func Register(in RegisterData) (RegisterData, FieldErrors) {
	out := RegisterData{
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
		Password: in.Password,
	}
	errs := FieldErrors{}
	if out.Name == "" {
		errs["name"] = "Name is required"
	}
	checkEmail(out.Email, errs)
	if utf8.RuneCountInString(out.Password) < minPasswordLen {
		errs["password"] = "Minimum 6 characters required"
	}
	if len(errs) > 0 {
		return RegisterData{}, errs
	}
	return out, nil
}

// LoginData is a login candidate.
type LoginData struct {
	Email    string
	Password string
}

// Login checks a login candidate.
func Login(in LoginData) (LoginData, FieldErrors) {
	out := LoginData{
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
		Password: in.Password,
	}
	errs := FieldErrors{}
	checkEmail(out.Email, errs)
	if out.Password == "" {
		errs["password"] = "Password is required"
	}
	if len(errs) > 0 {
		return LoginData{}, errs
	}
	return out, nil
}

// Team checks a proposed team name. Whitespace-only names are rejected; the name is returned as typed.
func Team(name string) (string, FieldErrors) {
	if strings.TrimSpace(name) == "" {
		return "", FieldErrors{"teamName": "Team name is required"}
	}
	return name, nil
}

// Member checks a new member's display name and returns it trimmed.
func Member(name string) (string, FieldErrors) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", FieldErrors{"name": "Member name is required"}
	}
	return name, nil
}

func checkEmail(email string, errs FieldErrors) {
	if email == "" {
		errs["email"] = "Email is required"
		return
	}
	if !emailPattern.MatchString(email) {
		errs["email"] = "Email is invalid"
	}
}
