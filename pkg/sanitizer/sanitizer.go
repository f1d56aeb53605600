package sanitizer

import (
	"regexp"
	"strings"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var reControl = regexp.MustCompile(`[\p{Cc}\p{Cf}]`)

func stripControl(s string) string {
	return reControl.ReplaceAllStringFunc(s, func(c string) string {
		if strings.ContainsAny(c, "\t\n\r") {
			return " "
		}
		return ""
	})
}

// SanitizeText cleans free text such as a reservation purpose: control and format characters
// are dropped, whitespace runs collapse to one space.
func SanitizeText(input string) string {
	return Pipeline{stripControl, TrimAndNormalize}.Apply(input)
}

// SanitizeIdentifier trims an opaque identifier. Case is preserved.
func SanitizeIdentifier(input string) string {
	return strings.TrimSpace(stripControl(input))
}

// SanitizeStatus upper-cases a status filter so "approved" matches APPROVED.
func SanitizeStatus(input string) string {
	return strings.ToUpper(SanitizeIdentifier(input))
}
