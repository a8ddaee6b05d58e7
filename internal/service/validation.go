package service

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/asaskevich/govalidator"

	"slice-url/internal/apperr"
)

const (
	minPasswordLength = 6
	minFullNameLength = 4
	minShortIDLength  = 7
	minCodeLength     = 3
	maxCodeLength     = 10
)

var (
	aliasPattern    = regexp.MustCompile(`^[a-z0-9]{3,10}$`)
	usernamePattern = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)
)

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func isValidEmail(email string) bool {
	return govalidator.IsEmail(strings.TrimSpace(email))
}

func isValidPassword(password string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(password)) >= minPasswordLength
}

// isValidFullName counts characters, not bytes.
func isValidFullName(fullName string) bool {
	return utf8.RuneCountInString(fullName) >= minFullNameLength
}

func isValidUsername(username string) bool {
	if isBlank(username) {
		return false
	}
	return usernamePattern.MatchString(strings.ToLower(username))
}

func isValidAlias(alias string) bool {
	return aliasPattern.MatchString(alias)
}

// validateURL checks that raw is an absolute http(s) URL.
func validateURL(raw string) error {
	if !govalidator.IsRequestURL(raw) {
		return apperr.NewInvalidInput("Invalid URL format")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return apperr.NewInvalidInput("Invalid URL format")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return apperr.NewInvalidInput("URL must start with http:// or https://")
	}
	if u.Host == "" {
		return apperr.NewInvalidInput("Invalid URL format")
	}
	return nil
}
