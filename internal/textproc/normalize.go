// Package textproc contains the text normalization and lexical signals the
// decision pipeline is built on. Everything here is a pure function over
// strings; nothing performs I/O.
package textproc

import (
	"regexp"
	"strings"
)

var (
	mentionRe    = regexp.MustCompile(`[#@]\w+`)
	urlRe        = regexp.MustCompile(`http\S+`)
	nonWordRe    = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Normalize strips mentions, hashtags, URL-like substrings, and any
// character that is not a letter, digit, underscore, or whitespace, then
// collapses whitespace runs and trims the ends. It is total and idempotent.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	text = mentionRe.ReplaceAllString(text, "")
	text = urlRe.ReplaceAllString(text, "")
	text = nonWordRe.ReplaceAllString(text, " ")
	text = whitespaceRe.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}
