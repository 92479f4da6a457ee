package sanitize

import (
	"Trademate-Backend/domain"
	"strings"
	"unicode"
)

// Config bounds one class of free text. Blocked terms are matched
// case-insensitively against the whole text.
type Config struct {
	MinRunes     int
	MaxRunes     int
	BlockedTerms []string
}

var (
	// Note covers the optional message attached to an offer or counter-offer.
	Note = Config{MinRunes: 1, MaxRunes: 500, BlockedTerms: defaultBlockedTerms}
	// Comment covers review comments.
	Comment = Config{MinRunes: 1, MaxRunes: 1000, BlockedTerms: defaultBlockedTerms}
)

var defaultBlockedTerms = []string{
	"http://",
	"https://",
	"venmo",
	"cashapp",
	"paypal",
}

type Sanitizer interface {
	Sanitize(text string, cfg Config) (string, error)
}

type sanitizer struct{}

func NewSanitizer() Sanitizer {
	return &sanitizer{}
}

// Sanitize trims and validates free text, returning the cleaned value or a
// SanitizationError with a user-facing reason.
func (s *sanitizer) Sanitize(text string, cfg Config) (string, error) {
	cleaned := strings.TrimSpace(text)

	if cleaned == "" {
		return "", &domain.SanitizationError{Reason: "text is empty"}
	}

	runes := []rune(cleaned)
	if len(runes) < cfg.MinRunes {
		return "", &domain.SanitizationError{Reason: "text is too short"}
	}
	if cfg.MaxRunes > 0 && len(runes) > cfg.MaxRunes {
		return "", &domain.SanitizationError{Reason: "text is too long"}
	}

	for _, r := range runes {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return "", &domain.SanitizationError{Reason: "text contains invalid characters"}
		}
	}

	lower := strings.ToLower(cleaned)
	for _, term := range cfg.BlockedTerms {
		if strings.Contains(lower, term) {
			return "", &domain.SanitizationError{Reason: "text contains blocked content"}
		}
	}

	return cleaned, nil
}
