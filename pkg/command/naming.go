package command

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// KebabCase turns a Go identifier into a command name: "OneOrTwo" -> "one-or-two",
// "UserID" -> "user-id", "HTTPPort" -> "http-port".
func KebabCase(ident string) string {
	words := splitWords(ident)
	lowerCaser := cases.Lower(language.Und)
	for i, w := range words {
		words[i] = lowerCaser.String(w)
	}
	return strings.Join(words, "-")
}

// TitleCase turns a Go identifier into a display name: "OneOrTwo" -> "One Or Two".
func TitleCase(ident string) string {
	words := splitWords(ident)
	titleCaser := cases.Title(language.Und)
	for i, w := range words {
		words[i] = titleCaser.String(w)
	}
	return strings.Join(words, " ")
}

func splitWords(ident string) []string {
	runes := []rune(ident)
	var words []string
	var cur []rune

	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}

	for i, r := range runes {
		if r == '_' || r == '-' || unicode.IsSpace(r) {
			flush()
			continue
		}
		if unicode.IsUpper(r) && len(cur) > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()

	return words
}
