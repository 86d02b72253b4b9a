package textproc

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// IsTooShort reports whether the text has fewer than minWords words.
// Empty text is always too short.
func IsTooShort(text string, minWords int) bool {
	if text == "" {
		return true
	}
	return len(strings.Fields(text)) < minWords
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_'
}

// ContainsBlacklisted reports whether any blacklist term appears in the
// text as a whole word. Matching is case-insensitive and unicode-aware;
// a term inside a longer word does not match.
func ContainsBlacklisted(text string, blacklist []string) bool {
	if text == "" || len(blacklist) == 0 {
		return false
	}

	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !isWordRune(r)
	})
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		seen[w] = struct{}{}
	}

	for _, term := range blacklist {
		if _, ok := seen[strings.ToLower(term)]; ok {
			return true
		}
	}
	return false
}

// CompileForwardPatterns compiles the configured forward-notification
// patterns as case-insensitive regular expressions.
func CompileForwardPatterns(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("invalid forward pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

// IsForwardNotification reports whether the text matches any of the
// transport-layer "this message was forwarded" patterns. Such notices are
// not user content and get suppressed before scoring.
func IsForwardNotification(text string, patterns []*regexp.Regexp) bool {
	if text == "" {
		return false
	}
	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
