package main

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// display formats bytes for display, truncating if needed.
// Printable UTF-8 is shown as text, anything else as hex.
func display(b []byte, maxLen int) string {
	if len(b) == 0 {
		return "(empty)"
	}

	if utf8.Valid(b) && isPrintable(b) {
		runes := []rune(string(b))
		if len(runes) > maxLen-3 {
			return string(runes[:maxLen-3]) + "..."
		}
		return string(runes)
	}

	hex := fmt.Sprintf("%x", b)
	if len(hex) > maxLen-3 {
		return hex[:maxLen-3] + "..."
	}
	return hex
}

func isPrintable(b []byte) bool {
	for _, r := range string(b) {
		if !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}
