package schema

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalizeTitle(t *testing.T) {
	title, err := NormalizeTitle("  buy milk ")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if title != "buy milk" {
		t.Fatalf("expected trimmed title, got %q", title)
	}
	if _, err := NormalizeTitle("   "); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
	long, err := NormalizeTitle(strings.Repeat("x", MaxTitleLength+40))
	if err != nil {
		t.Fatalf("normalize long: %v", err)
	}
	if len(long) != MaxTitleLength {
		t.Fatalf("expected title capped at %d, got %d", MaxTitleLength, len(long))
	}
}

func TestNormalizeServiceConfigDefaults(t *testing.T) {
	cfg, err := NormalizeServiceConfig(ServiceConfig{})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.HistoryLimit != DefaultHistoryLimit {
		t.Fatalf("expected history limit %d, got %d", DefaultHistoryLimit, cfg.HistoryLimit)
	}
	if cfg.SearchLimit != DefaultSearchLimit {
		t.Fatalf("expected search limit %d, got %d", DefaultSearchLimit, cfg.SearchLimit)
	}
}
