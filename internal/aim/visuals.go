package aim

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGBA is the single line color shared by every overlay element.
type RGBA struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

var White = RGBA{255, 255, 255, 255}

// ParseHexColor reads "#rrggbb" (alpha 255) or "#rrggbbaa".
func ParseHexColor(s string) (RGBA, error) {
	if len(s) == 9 {
		c, err := colorful.Hex(s[:7])
		if err != nil {
			return RGBA{}, err
		}
		var a uint8
		if _, err := fmt.Sscanf(s[7:], "%02x", &a); err != nil {
			return RGBA{}, fmt.Errorf("invalid alpha in %q: %w", s, err)
		}
		r, g, b := c.RGB255()
		return RGBA{r, g, b, a}, nil
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return RGBA{}, err
	}
	r, g, b := c.RGB255()
	return RGBA{r, g, b, 255}, nil
}

func (c RGBA) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// Visuals are the display switches and styling of the overlay.
type Visuals struct {
	ShowPocketLines bool    `json:"show_pocket_lines"`
	ShowAimLine     bool    `json:"show_aim_line"`
	ShowBank        bool    `json:"show_bank"`
	ShowDoubleBank  bool    `json:"show_double_bank"`
	LineThickness   int     `json:"line_thickness"`
	Opacity         float64 `json:"opacity"`
	Color           RGBA    `json:"color"`
}

func DefaultVisuals() Visuals {
	return Visuals{
		ShowPocketLines: true,
		ShowAimLine:     true,
		ShowBank:        true,
		ShowDoubleBank:  true,
		LineThickness:   3,
		Opacity:         0.95,
		Color:           White,
	}
}

// bankBounces returns the trace limit for the enabled bank mode, or 0 when
// neither bank line is shown.
func (v Visuals) bankBounces() int {
	switch {
	case v.ShowDoubleBank:
		return DoubleBankBounces
	case v.ShowBank:
		return BankBounces
	}
	return 0
}

func clampThickness(n int) int {
	if n < MinLineThickness {
		return MinLineThickness
	}
	if n > MaxLineThickness {
		return MaxLineThickness
	}
	return n
}

func clampOpacity(o float64) float64 {
	if o < MinOpacity {
		return MinOpacity
	}
	if o > MaxOpacity {
		return MaxOpacity
	}
	return o
}
