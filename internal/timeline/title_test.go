package timeline_test

import (
	"testing"

	"clipdeck/internal/timeline"
)

func TestDeriveDisplayName(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   string
	}{
		{"url with separators", "https://cdn.example.com/uploads/summer_sale-teaser.v2.mp4", "Summer Sale Teaser V2"},
		{"escaped path", "https://cdn.example.com/uploads/big%20finale.mov", "Big Finale"},
		{"bare filename", "broll_clip.mp4", "Broll Clip"},
		{"no usable characters", "https://cdn.example.com/____.mp4", "Untitled Clip"},
		{"empty", "", "Untitled Clip"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := timeline.DeriveDisplayName(tc.source); got != tc.want {
				t.Fatalf("DeriveDisplayName(%q) = %q, want %q", tc.source, got, tc.want)
			}
		})
	}
}
