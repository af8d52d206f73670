package validate

import (
	"strings"
	"unicode/utf8"
)

func Required(value string) bool {
	return strings.TrimSpace(value) != ""
}

func MinRunes(value string, min int) bool {
	return utf8.RuneCountInString(strings.TrimSpace(value)) >= min
}
