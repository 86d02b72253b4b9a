package domain

import "strings"

// SenderProfile is the fixed capability record produced by the transport
// adapter for whoever sent a message. Any field may be empty.
type SenderProfile struct {
	DisplayName string
	Username    string
	Title       string
}

// FormatSenderInfo renders the profile as a single display line.
// All-empty profiles render as "unknown sender".
func FormatSenderInfo(p SenderProfile) string {
	parts := make([]string, 0, 3)
	if p.DisplayName != "" {
		parts = append(parts, p.DisplayName)
	}
	if p.Username != "" {
		parts = append(parts, "(@"+p.Username+")")
	}
	if p.Title != "" {
		parts = append(parts, p.Title)
	}
	if len(parts) == 0 {
		return "unknown sender"
	}
	return strings.Join(parts, " ")
}
