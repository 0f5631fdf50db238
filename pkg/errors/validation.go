package errors

import (
	"strings"
	"unicode/utf8"
)

// MaxNotationLength caps notation accepted from the network, in bytes.
const MaxNotationLength = 4096

// ValidateNotation checks notation received from an untrusted source.
// The parser accepts anything, so this only guards resource use:
//   - Maximum length of MaxNotationLength bytes
//   - Valid UTF-8
//   - No null bytes
func ValidateNotation(s string) error {
	if len(s) > MaxNotationLength {
		return New(ErrCodeInputTooLarge, "notation too long (%d bytes, max %d)", len(s), MaxNotationLength)
	}
	if !utf8.ValidString(s) {
		return New(ErrCodeInvalidInput, "notation is not valid UTF-8")
	}
	if strings.ContainsRune(s, 0) {
		return New(ErrCodeInvalidInput, "notation contains null bytes")
	}
	return nil
}
