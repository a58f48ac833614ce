package seoulmetro

import (
	"strconv"
	"strings"
)

type RGB struct {
	R, G, B uint8
}

// Gray is used for colors that don't parse.
var Gray = RGB{R: 128, G: 128, B: 128}

// ParseHexColor parses "#RRGGBB" (the "#" is optional). It never fails:
// anything malformed becomes Gray.
func ParseHexColor(s string) RGB {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return Gray
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Gray
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
}

func (c RGB) Slice() []int {
	return []int{int(c.R), int(c.G), int(c.B)}
}
