package util

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	got, ok := ParseDate("2026-03-01")
	if !ok {
		t.Fatalf("expected ok")
	}
	if !got.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseDateRejects(t *testing.T) {
	for _, s := range []string{"", "not-a-date", "2026-13-01", "01/03/2026", "2026-03-01T00:00:00Z"} {
		if _, ok := ParseDate(s); ok {
			t.Fatalf("expected %q to be rejected", s)
		}
	}
}

func TestFromUnixMillis(t *testing.T) {
	want := time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)
	got := FromUnixMillis(float64(want.UnixMilli()))
	if !got.Equal(want) {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestCanonicalCoinID(t *testing.T) {
	cases := map[string]string{
		"BTC":      "bitcoin",
		"eth":      "ethereum",
		" SOL ":    "solana",
		"sei":      "sei",
		"Dogecoin": "dogecoin",
		"":         "",
	}
	for in, want := range cases {
		if got := CanonicalCoinID(in); got != want {
			t.Fatalf("CanonicalCoinID(%q) = %q, want %q", in, got, want)
		}
	}
}
