package surface

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// ParseColor accepts the colour strings the toolbar and saved drawings use:
// CSS names ("red"), hex ("#f00", "#ff0000") and "rgb(r, g, b)".
func ParseColor(s string) (color.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return nil, fmt.Errorf("empty colour")
	}
	if c, ok := colornames.Map[s]; ok {
		return c, nil
	}
	if strings.HasPrefix(s, "#") {
		if len(s) == 4 {
			s = "#" + string([]byte{s[1], s[1], s[2], s[2], s[3], s[3]})
		}
		c, err := colorful.Hex(s)
		if err != nil {
			return nil, fmt.Errorf("parse colour %q: %w", s, err)
		}
		r, g, b := c.RGB255()
		return color.RGBA{R: r, G: g, B: b, A: 255}, nil
	}
	if strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")") {
		var r, g, b uint8
		body := strings.ReplaceAll(s[4:len(s)-1], " ", "")
		if _, err := fmt.Sscanf(body, "%d,%d,%d", &r, &g, &b); err != nil {
			return nil, fmt.Errorf("parse colour %q: %w", s, err)
		}
		return color.RGBA{R: r, G: g, B: b, A: 255}, nil
	}
	return nil, fmt.Errorf("unknown colour %q", s)
}

// ColorString formats c as a #rrggbb string that ParseColor reads back.
func ColorString(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}
