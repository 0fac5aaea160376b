package model

import (
	"strings"
	"unicode"
)

// LabelFor derives a human-readable label from a field name: "firstName",
// "first_name" and "first-name" all become "First Name".
func LabelFor(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || unicode.IsSpace(r)
	})
	parts := make([]string, 0, len(words))
	for _, word := range words {
		for _, piece := range splitCamel(word) {
			parts = append(parts, capitalize(piece))
		}
	}
	return strings.Join(parts, " ")
}

func splitCamel(word string) []string {
	runes := []rune(word)
	var pieces []string
	start := 0
	for i := 1; i < len(runes); i++ {
		if wordBoundary(runes[i-1], runes[i]) {
			pieces = append(pieces, string(runes[start:i]))
			start = i
		}
	}
	return append(pieces, string(runes[start:]))
}

func wordBoundary(prev, r rune) bool {
	switch {
	case unicode.IsLower(prev) && unicode.IsUpper(r):
		return true
	case unicode.IsLetter(prev) && unicode.IsDigit(r):
		return true
	case unicode.IsDigit(prev) && unicode.IsLetter(r):
		return true
	}
	return false
}

func capitalize(word string) string {
	runes := []rune(strings.ToLower(word))
	if len(runes) == 0 {
		return ""
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
