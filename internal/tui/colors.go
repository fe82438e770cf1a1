package tui

// Color 是 ANSI 调色板索引，可直接作为 lipgloss.Color 使用。
type Color string

const (
	Red     Color = "1"
	Yellow  Color = "3"
	Green   Color = "2"
	Cyan    Color = "6"
	Blue    Color = "4"
	Magenta Color = "5"
)

// ColorSequence 是历史条目逐字符着色的固定循环顺序。
var ColorSequence = [...]Color{Red, Yellow, Green, Cyan, Blue, Magenta}

var colorNames = map[Color]string{
	Red:     "red",
	Yellow:  "yellow",
	Green:   "green",
	Cyan:    "cyan",
	Blue:    "blue",
	Magenta: "magenta",
}

func (c Color) String() string {
	if name, ok := colorNames[c]; ok {
		return name
	}
	return string(c)
}

// CycleColor 返回第 i 个字符的颜色：ColorSequence[i mod 6]。
func CycleColor(i int) Color {
	n := len(ColorSequence)
	i %= n
	if i < 0 {
		i += n
	}
	return ColorSequence[i]
}

// Segment 是一个字符及其颜色。
type Segment struct {
	Char  rune
	Color Color
}

// Rainbow 为 text 的每个字符分配颜色，下标从 0 开始，与其他条目无关。
func Rainbow(text string) []Segment {
	segs := make([]Segment, 0, len(text))
	i := 0
	for _, r := range text {
		segs = append(segs, Segment{Char: r, Color: CycleColor(i)})
		i++
	}
	return segs
}
