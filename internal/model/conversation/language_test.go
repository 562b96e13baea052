package conversation

import (
	"testing"
	"time"
)

func TestSeedCatalogComplete(t *testing.T) {
	catalog := NewMemoryCatalog(Seed())

	langs := catalog.List()
	if len(langs) != 15 {
		t.Fatalf("expected 15 languages, got %d", len(langs))
	}

	ja, ok := catalog.FindByCode("ja")
	if !ok {
		t.Fatal("ja not found")
	}
	if ja.PromptName != "Japanese" || ja.Name != "日文" {
		t.Fatalf("unexpected entry: %+v", ja)
	}

	if _, ok := catalog.FindByCode("xx"); ok {
		t.Fatal("unknown code must not resolve")
	}
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)
	if got := FormatTimestamp(ts); got != "2024.01.02 15:04:05" {
		t.Fatalf("unexpected format: %q", got)
	}
}
