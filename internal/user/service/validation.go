package service

import (
	"regexp"

	"github.com/verygoodisland/backend/internal/common/constants"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9]{4,16}$`)

// ValidateUsername checks the registration username rule: 4 to 16 ASCII
// letters or digits, nothing else.
func ValidateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return ErrInvalidUsernameFormat
	}
	return nil
}

// ValidatePassword checks the registration password rule: 6 to 16 ASCII
// letters or digits, with at least one letter and at least one digit. A
// purely numeric or purely alphabetic password is rejected.
func ValidatePassword(password string) error {
	if len(password) < constants.PasswordMinLength || len(password) > constants.PasswordMaxLength {
		return ErrInvalidPasswordFormat
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			hasLetter = true
		case r >= '0' && r <= '9':
			hasDigit = true
		default:
			return ErrInvalidPasswordFormat
		}
	}

	if !hasLetter || !hasDigit {
		return ErrInvalidPasswordFormat
	}
	return nil
}
