package tui

import (
	"slices"
	"testing"
)

func segmentText(lines [][]Segment) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		rs := make([]rune, 0, len(line))
		for _, s := range line {
			rs = append(rs, s.Char)
		}
		out = append(out, string(rs))
	}
	return out
}

func TestWrapSegments(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{name: "fits", text: "hello", width: 10, want: []string{"hello"}},
		{name: "no width", text: "hello", width: 0, want: []string{"hello"}},
		{name: "ascii", text: "hello world", width: 4, want: []string{"hell", "o wo", "rld"}},
		{name: "pure wide runes", text: "你好世界", width: 4, want: []string{"你好", "世界"}},
		{name: "wide rune not split", text: "a你好", width: 2, want: []string{"a", "你", "好"}},
		{name: "narrower than rune", text: "你好", width: 1, want: []string{"你", "好"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := segmentText(wrapSegments(Rainbow(tt.text), tt.width))
			if !slices.Equal(got, tt.want) {
				t.Fatalf("wrapSegments(%q,%d)=%v want %v", tt.text, tt.width, got, tt.want)
			}
		})
	}
}

func TestWrapSegmentsKeepsColorCycle(t *testing.T) {
	lines := wrapSegments(Rainbow("abcdefgh"), 3)
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3", len(lines))
	}
	if got := lines[1][0].Color; got != CycleColor(3) {
		t.Fatalf("second line starts with %s, want %s", got, CycleColor(3))
	}
	if got := lines[2][1].Color; got != CycleColor(7) {
		t.Fatalf("last segment color %s, want %s", got, CycleColor(7))
	}
}
