package bpe

import (
	"fmt"
	"strings"
	"unicode"
)

// RenderToken pretty-prints a token's bytes for vocabulary dumps and
// training logs: invalid UTF-8 becomes the replacement character and control
// characters are escaped as \uXXXX so they cannot distort the output.
func RenderToken(token []byte) string {
	return escapeControl(strings.ToValidUTF8(string(token), "�"))
}

func escapeControl(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsControl(r) {
			fmt.Fprintf(&b, `\u%04x`, r)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
