package tui

import "github.com/mattn/go-runewidth"

// wrapSegments 按显示宽度硬换行，不丢弃任何字符（空格也保留），
// 以保证颜色循环跨行连续。宽字符不会被拆开；单个字符宽于 width 时独占一行。
func wrapSegments(segs []Segment, width int) [][]Segment {
	if width <= 0 || len(segs) == 0 {
		return [][]Segment{segs}
	}
	var out [][]Segment
	start, used := 0, 0
	for i, seg := range segs {
		w := runewidth.RuneWidth(seg.Char)
		if used > 0 && used+w > width {
			out = append(out, segs[start:i])
			start, used = i, 0
		}
		used += w
	}
	return append(out, segs[start:])
}
