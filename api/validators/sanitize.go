package validators

import (
	"strings"
	"unicode/utf8"
)

// SanitizeString trims the input, collapses inner whitespace runs to one
// space and caps the result at maxLen runes. maxLen <= 0 disables the cap.
func SanitizeString(input string, maxLen int) string {
	cleaned := strings.Join(strings.Fields(input), " ")
	if maxLen <= 0 || utf8.RuneCountInString(cleaned) <= maxLen {
		return cleaned
	}
	runes := []rune(cleaned)
	return strings.TrimSpace(string(runes[:maxLen]))
}

// SanitizeOptional applies SanitizeString to a present value. A blank value
// stays present so the service can reject it.
func SanitizeOptional(input *string, maxLen int) *string {
	if input == nil {
		return nil
	}
	cleaned := SanitizeString(*input, maxLen)
	return &cleaned
}
