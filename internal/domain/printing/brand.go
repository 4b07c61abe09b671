package printing

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/domain/shared"
	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/domain/shared/valueobject"
)

// Color is an 8-bit RGB color. It marshals to and from "#rrggbb".
type Color struct {
	R, G, B uint8
}

// ParseColor parses "#rgb" or "#rrggbb" notation
func ParseColor(hex string) (Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, shared.NewDomainError("INVALID_COLOR", fmt.Sprintf("Invalid color %q", hex))
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b}, nil
}

// MustColor is ParseColor for literals
func MustColor(hex string) Color {
	c, err := ParseColor(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex returns the "#rrggbb" form
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Tint blends the color toward white by t (0 keeps the color, 1 is white).
// Blending happens in Lab space so light tints keep their hue.
func (c Color) Tint(t float64) Color {
	if t <= 0 {
		return c
	}
	if t > 1 {
		t = 1
	}
	base := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	r, g, b := base.BlendLab(colorful.Color{R: 1, G: 1, B: 1}, t).Clamped().RGB255()
	return Color{R: r, G: g, B: b}
}

// MarshalText implements encoding.TextMarshaler
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// SectionColors assigns each progress report section its own accent
type SectionColors struct {
	Summary       Color `json:"summary"`
	Visualization Color `json:"visualization"`
	Photos        Color `json:"photos"`
	History       Color `json:"history"`
}

// Palette holds every color a recipe draws with
type Palette struct {
	Primary       Color         `json:"primary"`
	Text          Color         `json:"text"`
	Muted         Color         `json:"muted"`
	Border        Color         `json:"border"`
	CardFill      Color         `json:"card_fill"`
	HeaderFill    Color         `json:"header_fill"`
	HeaderText    Color         `json:"header_text"`
	ZebraFill     Color         `json:"zebra_fill"`
	FooterFill    Color         `json:"footer_fill"`
	HighlightFill Color         `json:"highlight_fill"`
	HighlightText Color         `json:"highlight_text"`
	Favorable     Color         `json:"favorable"`
	Unfavorable   Color         `json:"unfavorable"`
	Neutral       Color         `json:"neutral"`
	DayBanners    []Color       `json:"day_banners"`
	Sections      SectionColors `json:"sections"`
}

// DayBanner returns the banner color for the i-th day, cycling the list
func (p Palette) DayBanner(i int) Color {
	if len(p.DayBanners) == 0 {
		return p.Primary
	}
	return p.DayBanners[i%len(p.DayBanners)]
}

// Brand is the read-only identity and style passed into every composition.
// Different clubs can render with different brands in the same process.
type Brand struct {
	Name           string               `json:"name"`
	Tagline        string               `json:"tagline"`
	ContactLines   []string             `json:"contact_lines"`
	Currency       valueobject.Currency `json:"currency"`
	ClosingNote    string               `json:"closing_note"`
	LetterheadPath string               `json:"letterhead_path,omitempty"`
	Palette        Palette              `json:"palette"`
}

// DefaultPalette returns the stock club palette
func DefaultPalette() Palette {
	primary := MustColor("#e4572e")
	return Palette{
		Primary:       primary,
		Text:          MustColor("#1f2933"),
		Muted:         MustColor("#616e7c"),
		Border:        MustColor("#cbd2d9"),
		CardFill:      MustColor("#f5f7fa"),
		HeaderFill:    MustColor("#1f2933"),
		HeaderText:    MustColor("#ffffff"),
		ZebraFill:     MustColor("#f0f4f8"),
		FooterFill:    MustColor("#e4e7eb"),
		HighlightFill: primary.Tint(0.75),
		HighlightText: MustColor("#7c2d12"),
		Favorable:     MustColor("#2f9e44"),
		Unfavorable:   MustColor("#e03131"),
		Neutral:       MustColor("#868e96"),
		DayBanners: []Color{
			MustColor("#1971c2"), MustColor("#2f9e44"), MustColor("#e8590c"),
			MustColor("#7048e8"), MustColor("#0c8599"), MustColor("#c2255c"), MustColor("#5c940d"),
		},
		Sections: SectionColors{
			Summary:       MustColor("#1971c2"),
			Visualization: MustColor("#7048e8"),
			Photos:        MustColor("#0c8599"),
			History:       MustColor("#e8590c"),
		},
	}
}

// DefaultBrand returns the stock brand used when a club configured none
func DefaultBrand() *Brand {
	return &Brand{
		Name:         "FitRobit Fitness",
		Tagline:      "Stronger every day",
		ContactLines: []string{"No. 12, Galle Road, Colombo 03", "+94 11 234 5678", "hello@fitrobit.lk"},
		Currency:     valueobject.DefaultCurrency,
		ClosingNote:  "Thank you for training with us!",
		Palette:      DefaultPalette(),
	}
}

// Validate checks the fields every recipe depends on
func (b *Brand) Validate() error {
	if b == nil {
		return shared.NewDomainError("INVALID_BRAND", "Brand is required")
	}
	if b.Name == "" {
		return shared.NewDomainError("INVALID_BRAND", "Brand name cannot be empty")
	}
	if b.Currency == "" {
		return shared.NewDomainError("INVALID_BRAND", "Brand currency cannot be empty")
	}
	return nil
}
