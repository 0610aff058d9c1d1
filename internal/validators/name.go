package validators

import "unicode/utf8"

// NameMaxLen matches the appointments.name column, counted in characters.
const NameMaxLen = 100

func IsNameLengthValid(name string) bool {
	return utf8.RuneCountInString(name) <= NameMaxLen
}
