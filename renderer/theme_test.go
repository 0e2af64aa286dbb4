package renderer

import "testing"

func TestParseTheme(t *testing.T) {
	for i, name := range ThemeNames() {
		got, err := ParseTheme(name)
		if err != nil || got != Theme(i) {
			t.Errorf("ParseTheme(%q) = %v, %v", name, got, err)
		}
		if got.String() != name {
			t.Errorf("String() = %q, want %q", got.String(), name)
		}
	}
	if _, err := ParseTheme("sepia"); err == nil {
		t.Error("expected error for unknown theme")
	}
}

func TestParticleColorInRange(t *testing.T) {
	for i := range ThemeNames() {
		for _, uv := range [][2]float32{{0, 0}, {0.3, 0.7}, {0.99, 0.5}} {
			c, a := ParticleColor(Theme(i), uv[0], uv[1], 3, 1.5, 0.8)
			for _, ch := range []float32{c.R, c.G, c.B, a} {
				if ch < 0 || ch > 1 {
					t.Fatalf("%v at %v: colour %+v alpha %v outside [0,1]", Theme(i), uv, c, a)
				}
			}
		}
	}
}

func TestSilentWhiteIsOpaque(t *testing.T) {
	c, a := ParticleColor(ThemeWhite, 0.5, 0.5, 0, 10, 0)
	if c != (RGB{1, 1, 1}) || a != 1 {
		t.Errorf("white = %+v alpha %v, want opaque white", c, a)
	}
}

func TestHSVPrimaries(t *testing.T) {
	tests := []struct {
		h    float32
		want RGB
	}{
		{0, RGB{1, 0, 0}},
		{1.0 / 3, RGB{0, 1, 0}},
		{2.0 / 3, RGB{0, 0, 1}},
	}
	for _, tc := range tests {
		got := hsv(tc.h, 1, 1)
		if d := abs(got.R-tc.want.R) + abs(got.G-tc.want.G) + abs(got.B-tc.want.B); d > 1e-4 {
			t.Errorf("hsv(%v) = %+v, want %+v", tc.h, got, tc.want)
		}
	}
}

func TestKineticFollowsSpeed(t *testing.T) {
	slow, _ := ParticleColor(ThemeKinetic, 0, 0, 0, 0, 0)
	fast, _ := ParticleColor(ThemeKinetic, 0, 0, 10, 0, 0)
	if slow.B <= slow.R || fast.R <= fast.B {
		t.Errorf("slow %+v should be blue, fast %+v red", slow, fast)
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
