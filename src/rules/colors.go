package rules

import (
	"fmt"
	"strings"

	"github.com/logrusorgru/aurora"
)

const brightPrefix = "bright-"

var colorNames = map[string]aurora.Color{
	"black":   aurora.BlackFg,
	"red":     aurora.RedFg,
	"green":   aurora.GreenFg,
	"yellow":  aurora.YellowFg,
	"blue":    aurora.BlueFg,
	"magenta": aurora.MagentaFg,
	"cyan":    aurora.CyanFg,
	"white":   aurora.WhiteFg,
}

//ParseColor maps a rule file color name to the foreground color
//an empty name means no color
func ParseColor(name string) (aurora.Color, error) {
	if name == "" {
		return 0, nil
	}
	base := strings.TrimPrefix(name, brightPrefix)
	c, ok := colorNames[base]
	if !ok {
		return 0, fmt.Errorf("unknown color %q", name)
	}
	if base != name {
		c |= aurora.BrightFg
	}
	return c, nil
}
