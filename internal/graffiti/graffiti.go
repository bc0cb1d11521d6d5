// Package graffiti turns the raw 32-byte block graffiti into text and
// provides the helpers used to label and display it.
package graffiti

import (
	"bytes"
	"strings"

	"github.com/forPelevin/gomoji"
	"github.com/rivo/uniseg"
)

// Decode returns the graffiti as text. Trailing NUL padding is dropped and
// invalid UTF-8 sequences are replaced with U+FFFD.
func Decode(raw [32]byte) string {
	trimmed := bytes.TrimRight(raw[:], "\x00")
	return strings.ToValidUTF8(string(trimmed), "�")
}

// ContainsToken reports whether token appears in text, ignoring case.
func ContainsToken(text, token string) bool {
	return strings.Contains(strings.ToLower(text), strings.ToLower(token))
}

// StripEmoji removes every grapheme cluster that renders as an emoji. It is
// meant for log display only.
//
// A cluster is dropped when the emoji database knows it and it renders two
// cells wide. Text-presentation symbols such as © or ™ stay one cell wide and
// are kept, as are box-drawing, braille and other non-emoji symbols.
func StripEmoji(text string) string {
	var sb strings.Builder
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		cluster := gr.Str()
		if gomoji.ContainsEmoji(cluster) && uniseg.StringWidth(cluster) == 2 {
			continue
		}
		sb.WriteString(cluster)
	}
	return sb.String()
}
