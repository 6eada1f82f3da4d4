package validator

import (
	"net/mail"
	"unicode"
)

const (
	minLoginLen    = 4
	minPasswordLen = 8
)

func IsValidLogin(login string) bool {
	if len(login) < minLoginLen {
		return false
	}

	for _, r := range login {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}

	return true
}

func IsValidPassword(password string) bool {
	if len(password) < minPasswordLen {
		return false
	}

	var hasLetter, hasDigit bool

	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	return hasLetter && hasDigit
}

func IsValidEmail(email string) bool {
	if email == "" {
		return false
	}

	addr, err := mail.ParseAddress(email)

	return err == nil && addr.Address == email
}
