package textproc

import (
	"regexp"
	"strings"
)

var (
	multiSpace   = regexp.MustCompile(`[ ]{2,}`)
	multiNewline = regexp.MustCompile(`\n{2,}`)
)

// punctuation seen in exported notes that trips the pattern rules
var asciiReplacer = strings.NewReplacer(
	"–", "-", // en dash
	"—", "-", // em dash
	" ", " ", // non-breaking space
	"’", "'",
)

// Normalize canonicalizes whitespace and punctuation. It is pure, total
// and a fixed point: Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	text = asciiReplacer.Replace(text)
	text = multiSpace.ReplaceAllString(text, " ")
	text = multiNewline.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}
