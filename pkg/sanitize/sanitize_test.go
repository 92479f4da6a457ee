package sanitize

import (
	"Trademate-Backend/domain"
	"errors"
	"strings"
	"testing"
)

func TestSanitizeAcceptsCleanText(t *testing.T) {
	s := NewSanitizer()

	cases := []struct {
		in   string
		want string
	}{
		{"would you trade this for my lamp?", "would you trade this for my lamp?"},
		{"  padded  ", "padded"},
		{"line one\nline two\ttabbed", "line one\nline two\ttabbed"},
		{"émoji and accents are fine ✓", "émoji and accents are fine ✓"},
	}
	for _, c := range cases {
		got, err := s.Sanitize(c.in, Note)
		if err != nil {
			t.Errorf("Sanitize(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("Sanitize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSanitizeRejects(t *testing.T) {
	s := NewSanitizer()

	cases := []struct {
		name string
		in   string
		cfg  Config
	}{
		{"empty", "", Note},
		{"whitespace only", "   \n\t ", Note},
		{"over note limit", strings.Repeat("a", 501), Note},
		{"over comment limit", strings.Repeat("b", 1001), Comment},
		{"url", "message me at https://example.com", Note},
		{"plain url", "see http://example.com", Note},
		{"payment handle", "send it via VENMO please", Note},
		{"control character", "hidden\x00byte", Note},
	}
	for _, c := range cases {
		_, err := s.Sanitize(c.in, c.cfg)
		var sanitizationErr *domain.SanitizationError
		if !errors.As(err, &sanitizationErr) {
			t.Errorf("%s: got %v, want SanitizationError", c.name, err)
		}
	}
}

func TestSanitizeBoundaryLengths(t *testing.T) {
	s := NewSanitizer()

	// A note of exactly the maximum length passes. Multibyte runes count as
	// one character each.
	atLimit := strings.Repeat("ё", 500)
	if _, err := s.Sanitize(atLimit, Note); err != nil {
		t.Errorf("note at rune limit: %v", err)
	}
	if _, err := s.Sanitize(atLimit+"ё", Note); err == nil {
		t.Error("note one rune over limit passed")
	}
}
