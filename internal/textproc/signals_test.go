package textproc

import "testing"

func TestIsTooShort(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		minWords int
		want     bool
	}{
		{name: "empty is too short", text: "", minWords: 5, want: true},
		{name: "four words below threshold", text: "one two three four", minWords: 5, want: true},
		{name: "five words at threshold", text: "one two three four five", minWords: 5, want: false},
		{name: "six words above threshold", text: "one two three four five six", minWords: 5, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTooShort(tt.text, tt.minWords); got != tt.want {
				t.Errorf("IsTooShort(%q, %d) = %v, want %v", tt.text, tt.minWords, got, tt.want)
			}
		})
	}
}

func TestContainsBlacklisted(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		blacklist []string
		want      bool
	}{
		{
			name:      "whole word match",
			text:      "this is spam",
			blacklist: []string{"spam"},
			want:      true,
		},
		{
			name:      "substring inside another word does not match",
			text:      "spamming now",
			blacklist: []string{"spam"},
			want:      false,
		},
		{
			name:      "case insensitive",
			text:      "pure SPAM here honestly",
			blacklist: []string{"spam"},
			want:      true,
		},
		{
			name:      "cyrillic whole word",
			text:      "это спам и реклама",
			blacklist: []string{"спам"},
			want:      true,
		},
		{
			name:      "empty blacklist",
			text:      "anything at all",
			blacklist: nil,
			want:      false,
		},
		{
			name:      "empty text",
			text:      "",
			blacklist: []string{"spam"},
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContainsBlacklisted(tt.text, tt.blacklist); got != tt.want {
				t.Errorf("ContainsBlacklisted(%q, %v) = %v, want %v", tt.text, tt.blacklist, got, tt.want)
			}
		})
	}
}

func TestIsForwardNotification(t *testing.T) {
	patterns, err := CompileForwardPatterns([]string{"forwarded message", "forwarded from"})
	if err != nil {
		t.Fatalf("CompileForwardPatterns: %v", err)
	}

	tests := []struct {
		name string
		text string
		want bool
	}{
		{name: "exact pattern", text: "forwarded message", want: true},
		{name: "pattern inside text", text: "this Forwarded Message came from a channel", want: true},
		{name: "case insensitive", text: "FORWARDED FROM somewhere", want: true},
		{name: "no match", text: "a regular chat message", want: false},
		{name: "empty", text: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsForwardNotification(tt.text, patterns); got != tt.want {
				t.Errorf("IsForwardNotification(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestCompileForwardPatternsInvalid(t *testing.T) {
	if _, err := CompileForwardPatterns([]string{"valid", "("}); err == nil {
		t.Error("expected error for invalid pattern")
	}
}
