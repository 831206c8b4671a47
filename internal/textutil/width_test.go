package textutil

import "testing"

func TestDisplayWidthGraphemeClusters(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"plain ascii", "abc", 3},
		{"wide cjk", "日本語", 6},
		{"thumbs up with skin tone", "👍🏻", 2},
		{"family zwj", "👨‍👩‍👧", 2},
		{"flag regional indicators", "🇵🇱", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayWidth(tt.text); got != tt.want {
				t.Fatalf("DisplayWidth(%q)=%d want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{"fits", "short", 10, "short"},
		{"exact", "exact", 5, "exact"},
		{"cut ascii", "longer-name", 7, "longer…"},
		{"cut wide", "日本語テキスト", 5, "日本…"},
		{"zero width", "anything", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.text, tt.width); got != tt.want {
				t.Fatalf("Truncate(%q,%d)=%q want %q", tt.text, tt.width, got, tt.want)
			}
		})
	}
}
