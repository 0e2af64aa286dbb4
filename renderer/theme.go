package renderer

import (
	"fmt"
	"math"
	"strings"
)

// Theme selects how particles are coloured.
type Theme int

const (
	ThemeWhite Theme = iota
	ThemeFire
	ThemeIce
	ThemeNature
	ThemeMatrix
	ThemeTron
	ThemeBarbie
	ThemeDune
	ThemeBladeRunner
	ThemeStarWars
	ThemeKinetic
	numThemes
)

var themeNames = [...]string{
	"white", "fire", "ice", "nature", "matrix", "tron",
	"barbie", "dune", "bladerunner", "starwars", "kinetic",
}

func (t Theme) String() string {
	if t < 0 || t >= numThemes {
		return fmt.Sprintf("theme(%d)", int(t))
	}
	return themeNames[t]
}

// ParseTheme looks up a theme by name, case-insensitively.
func ParseTheme(name string) (Theme, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range themeNames {
		if n == name {
			return Theme(i), nil
		}
	}
	return ThemeWhite, fmt.Errorf("unknown theme %q", name)
}

// ThemeNames returns every theme name in order.
func ThemeNames() []string { return themeNames[:] }

// RGB is a linear colour with components in [0,1].
type RGB struct{ R, G, B float32 }

// ParticleColor returns the colour and alpha of a particle. u and v are its
// cell coordinates, speed the length of its velocity, sound the smoothed audio
// level.
func ParticleColor(theme Theme, u, v, speed, time, sound float32) (RGB, float32) {
	t := u + v*0.5
	alpha := 1 + sinf(time*20+u*100)*sound*0.5

	var c RGB
	switch theme {
	case ThemeFire:
		c = hsv(0.08*fract(t*5), 1, 1)
	case ThemeIce:
		c = hsv(0.5+0.2*fract(t*2), 0.8+0.2*sinf(t*20), 1)
	case ThemeNature:
		c = hsv(0.25+0.15*fract(t*3), 1, 0.8)
	case ThemeMatrix:
		k := 0.5 + 0.5*sinf(t*50)
		c = RGB{0, k, 0.2 * k}
	case ThemeTron:
		c = pick(fract(t*10) > 0.5, RGB{0, 1, 1}, RGB{1, 0.2, 0})
	case ThemeBarbie:
		c = pick(fract(t*5) > 0.5, RGB{1, 0, 0.5}, RGB{0.8, 0, 0.8})
	case ThemeDune:
		c = pick(fract(t*20) > 0.9, RGB{0, 0.5, 1}, RGB{1, 0.3, 0})
	case ThemeBladeRunner:
		c = hsv(0.7+0.2*fract(t*2+speed*0.1), 1, 1)
	case ThemeStarWars:
		c = pick(fract(t*2) > 0.5, RGB{1, 0, 0}, RGB{0, 0.5, 1})
	case ThemeKinetic:
		s := smoothstep(0, 5, speed)
		c = RGB{s, 0.1 * (1 - s), 0.8*(1-s) + 0.2*s}
		alpha *= 0.5 + s*0.5
	default:
		c = RGB{1, 1, 1}
	}
	return c, clamp01(alpha)
}

func pick(cond bool, a, b RGB) RGB {
	if cond {
		return a
	}
	return b
}

// hsv converts hue, saturation, value in [0,1] to RGB.
func hsv(h, s, v float32) RGB {
	k := func(n float32) float32 {
		p := float32(math.Abs(float64(fract(h+n)*6 - 3)))
		return v * (1 - s + s*clamp01(p-1))
	}
	return RGB{k(1), k(2.0 / 3), k(1.0 / 3)}
}

func smoothstep(e0, e1, x float32) float32 {
	t := clamp01((x - e0) / (e1 - e0))
	return t * t * (3 - 2*t)
}

func sinf(x float32) float32  { return float32(math.Sin(float64(x))) }
func fract(x float32) float32 { return x - float32(math.Floor(float64(x))) }
func sqrtf(x float32) float32 { return float32(math.Sqrt(float64(x))) }

func clamp01(x float32) float32 {
	return max(0, min(1, x))
}
