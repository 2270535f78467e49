package client

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrInvalidEmail = errors.New("invalid email address")
	ErrInvalidRole  = errors.New("invalid role")
	ErrEmptyName    = errors.New("name cannot be empty")
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

type Email string

func NewEmail(value string) (Email, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	if !emailRegex.MatchString(value) {
		return Email(""), ErrInvalidEmail
	}
	return Email(value), nil
}

func (e Email) String() string {
	return string(e)
}

func NewRole(value string) (Role, error) {
	role := Role(value)
	if !role.IsValid() {
		return Role(""), ErrInvalidRole
	}
	return role, nil
}
