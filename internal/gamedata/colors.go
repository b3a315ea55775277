package gamedata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// ParseHexColor converts a hex color string (e.g., "#FF0000" or "FF0000") to a tcell.Color.
func ParseHexColor(hex string) (tcell.Color, error) {
	// Remove leading # if present
	hex = strings.TrimPrefix(hex, "#")

	if len(hex) != 6 {
		return tcell.ColorDefault, fmt.Errorf("invalid hex color length: %s", hex)
	}

	// Parse RGB components
	r, err := strconv.ParseUint(hex[0:2], 16, 8)
	if err != nil {
		return tcell.ColorDefault, fmt.Errorf("invalid red component in %s: %w", hex, err)
	}

	g, err := strconv.ParseUint(hex[2:4], 16, 8)
	if err != nil {
		return tcell.ColorDefault, fmt.Errorf("invalid green component in %s: %w", hex, err)
	}

	b, err := strconv.ParseUint(hex[4:6], 16, 8)
	if err != nil {
		return tcell.ColorDefault, fmt.Errorf("invalid blue component in %s: %w", hex, err)
	}

	return tcell.NewRGBColor(int32(r), int32(g), int32(b)), nil
}

// MustParseHexColor converts a hex color string to tcell.Color, panicking on error.
func MustParseHexColor(hex string) tcell.Color {
	color, err := ParseHexColor(hex)
	if err != nil {
		panic(err)
	}
	return color
}

// effectColors is the palette used when an ability or item has no color of its own.
var effectColors = map[string]string{
	EffectPoison:             "#4CAF50",
	EffectBurning:            "#FF7043",
	EffectBleed:              "#C62828",
	EffectManaDrain:          "#7E57C2",
	EffectRegen:              "#66BB6A",
	EffectManaRegen:          "#42A5F5",
	BuffDamageIncrease:       "#FFCA28",
	BuffDamageReduction:      "#90A4AE",
	BuffAttackSpeedReduction: "#4DD0E1",
	BuffStun:                 "#FFEE58",
}

// EffectColor returns the display color for a buff or periodic effect type.
func EffectColor(effectType string) tcell.Color {
	hex, ok := effectColors[effectType]
	if !ok {
		return tcell.ColorWhite
	}
	return MustParseHexColor(hex)
}

// TCellColor returns the ability's color, falling back by damage kind.
func (a *AbilityDef) TCellColor() tcell.Color {
	if color, err := ParseHexColor(a.Color); err == nil {
		return color
	}
	if a.Type == Magic {
		return tcell.ColorLightSkyBlue
	}
	return tcell.ColorOrange
}
