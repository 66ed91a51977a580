// Package validation holds the presentation-layer field checks run before
// profile create/update calls. The synchronizers themselves pass fields
// through untouched and surface backend constraint violations as errors.
package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"unicode/utf8"
)

// usernamePattern: lowercase letters, digits and underscores, starting
// with a letter.
var usernamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

const (
	MinUsernameLen = 3
	MaxUsernameLen = 30

	MaxDisplayNameLen = 80
	MaxBioLen         = 500
	MaxLocationLen    = 80

	minPasswordLen = 8
)

// ValidateUsername checks the profile username format: 3-30 characters,
// lowercase letters, digits and underscores, starting with a letter.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}
	if len(username) < MinUsernameLen {
		return fmt.Errorf("username must be at least %d characters long", MinUsernameLen)
	}
	if len(username) > MaxUsernameLen {
		return fmt.Errorf("username must not exceed %d characters", MaxUsernameLen)
	}
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("username can only contain lowercase letters, numbers and underscores, and must start with a letter")
	}
	return nil
}

// ValidateDisplayName limits display names to 80 characters.
func ValidateDisplayName(name string) error {
	if utf8.RuneCountInString(name) > MaxDisplayNameLen {
		return fmt.Errorf("display name must not exceed %d characters", MaxDisplayNameLen)
	}
	return nil
}

// ValidateBio limits the bio to 500 characters.
func ValidateBio(bio string) error {
	if utf8.RuneCountInString(bio) > MaxBioLen {
		return fmt.Errorf("bio must not exceed %d characters", MaxBioLen)
	}
	return nil
}

// ValidateLocation limits the location to 80 characters.
func ValidateLocation(location string) error {
	if utf8.RuneCountInString(location) > MaxLocationLen {
		return fmt.Errorf("location must not exceed %d characters", MaxLocationLen)
	}
	return nil
}

// ValidateWebsite requires an absolute http or https URL.
func ValidateWebsite(website string) error {
	u, err := url.Parse(website)
	if err != nil {
		return fmt.Errorf("website must be a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("website must start with http:// or https://")
	}
	if u.Host == "" {
		return fmt.Errorf("website must include a host")
	}
	return nil
}

// ValidateEmail performs the minimal shape check done before sign-in and
// sign-up. Full address validation is the backend's job.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}
	at := -1
	for i, r := range email {
		if r == '@' {
			at = i
			break
		}
	}
	if at <= 0 || at == len(email)-1 {
		return fmt.Errorf("email address is not valid")
	}
	return nil
}

// ValidatePassword checks the minimum password length.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}
	if len(password) < minPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", minPasswordLen)
	}
	return nil
}
