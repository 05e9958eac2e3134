package ui

import (
	"testing"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

func TestAgeLabel(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		created string
		want    string
	}{
		{"2026-08-01T11:59:40Z", "now"},
		{"2026-08-01T11:30:00Z", "30m"},
		{"2026-08-01T03:00:00Z", "9h"},
		{"2026-07-25T12:00:00Z", "7d"},
		{"not a timestamp", "-"},
		{"", "-"},
		// Clock skew: a future timestamp clamps to now.
		{"2026-08-01T12:05:00Z", "now"},
	}
	for _, tc := range cases {
		if got := ageLabel(tc.created, now); got != tc.want {
			t.Fatalf("ageLabel(%q) = %q, want %q", tc.created, got, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"a longer string", 7, "a long…"},
		{"ab", 1, "a"},
		{"anything", 0, "anything"},
		// Rune boundaries, not byte boundaries.
		{"crème brûlée", 6, "crème…"},
		{"crème", 4, "crè…"},
		{"crème", 5, "crème"},
	}
	for _, tc := range cases {
		got := truncate(tc.in, tc.max)
		if got != tc.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
		if !utf8.ValidString(got) {
			t.Fatalf("truncate(%q, %d) = %q, invalid UTF-8", tc.in, tc.max, got)
		}
	}
}

func TestParseBool(t *testing.T) {
	t.Parallel()

	trues := []string{"y", "YES", "true", "1", " Y "}
	for _, in := range trues {
		got, err := parseBool(in)
		if err != nil || !got {
			t.Fatalf("parseBool(%q) = (%t, %v), want (true, nil)", in, got, err)
		}
	}
	falses := []string{"", "n", "No", "false", "0"}
	for _, in := range falses {
		got, err := parseBool(in)
		if err != nil || got {
			t.Fatalf("parseBool(%q) = (%t, %v), want (false, nil)", in, got, err)
		}
	}
	if _, err := parseBool("maybe"); err == nil {
		t.Fatalf("parseBool(\"maybe\") returned nil error, want error")
	}
}

func TestPadRight(t *testing.T) {
	t.Parallel()

	if got := padRight("ab", 5); got != "ab   " {
		t.Fatalf("padRight = %q, want %q", got, "ab   ")
	}
	if got := padRight("abcdef", 4); got != "abc…" {
		t.Fatalf("padRight = %q, want truncation to width", got)
	}
}

// Every padded cell must occupy exactly the requested number of display
// columns or the table misaligns; the ellipsis and accented runes are wider
// in bytes than in cells.
func TestPadRight_PadsToDisplayWidth(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in    string
		width int
	}{
		{"a long…", 10},
		{"crème brûlée", 8},
		{"crème", 10},
		{"plain", 5},
	}
	for _, tc := range cases {
		got := padRight(tc.in, tc.width)
		if w := lipgloss.Width(got); w != tc.width {
			t.Fatalf("padRight(%q, %d) display width = %d, want %d", tc.in, tc.width, w, tc.width)
		}
	}
}

func TestNextTheme_Cycles(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	name := themeOrder[0]
	for range themeOrder {
		seen[name] = true
		name = NextTheme(name)
	}
	if name != themeOrder[0] {
		t.Fatalf("NextTheme cycle ended at %q, want wrap to %q", name, themeOrder[0])
	}
	for _, want := range themeOrder {
		if !seen[want] {
			t.Fatalf("NextTheme cycle never visited %q", want)
		}
	}
	if got := NextTheme("unknown"); got != themeOrder[0] {
		t.Fatalf("NextTheme(unknown) = %q, want %q", got, themeOrder[0])
	}
}
