package schema

import "strings"

// MaxTitleLength caps todo titles, matching the store column width.
const MaxTitleLength = 255

// NormalizeTitle trims and validates a todo title.
func NormalizeTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", ErrEmptyTitle
	}
	if len(trimmed) > MaxTitleLength {
		trimmed = trimmed[:MaxTitleLength]
	}
	return trimmed, nil
}

// NormalizeDescription trims a todo description. Empty is allowed.
func NormalizeDescription(desc string) string {
	return strings.TrimSpace(desc)
}

// NormalizeMessage trims and validates a user utterance.
func NormalizeMessage(message string) (string, error) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return "", ErrEmptyMessage
	}
	return trimmed, nil
}
