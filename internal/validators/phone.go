package validators

import (
	"regexp"
	"strings"
)

// PhoneMaxLen matches the appointments.phone column.
const PhoneMaxLen = 20

var phonePattern = regexp.MustCompile(`^\+?[0-9 ()\-.]{6,20}$`)

// IsPhoneValid accepts the loose formats people type into booking forms:
// optional leading +, digits, spaces, dashes, dots and parentheses.
func IsPhoneValid(phone string) bool {
	phone = strings.TrimSpace(phone)
	if len(phone) > PhoneMaxLen || !phonePattern.MatchString(phone) {
		return false
	}

	digits := 0
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= 6
}
