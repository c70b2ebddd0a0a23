package layout

import (
	"strconv"
	"strings"
)

var white = RGB{255, 255, 255}

// ParseHex reads "#RRGGBB" or "#RGB", with or without the hash.
func ParseHex(s string) (RGB, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return RGB{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}, false
	}
	return RGB{uint8(v >> 16), uint8(v >> 8), uint8(v)}, true
}

// colorOr parses s, falling back when it is not a valid hex color.
func colorOr(s string, fallback RGB) RGB {
	if c, ok := ParseHex(s); ok {
		return c
	}
	return fallback
}

// Mix blends a toward b by t in [0,1].
func Mix(a, b RGB, t float64) RGB {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	lerp := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5)
	}
	return RGB{lerp(a.R, b.R), lerp(a.G, b.G), lerp(a.B, b.B)}
}

func ptr(c RGB) *RGB { return &c }
