package systems

import (
	"math"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/swarm/components"
	"github.com/pthm-cable/swarm/forces"
)

func newTestInteraction(p InteractionParams) *Interaction {
	if p.ScreenW == 0 {
		p.ScreenW, p.ScreenH = 800, 600
	}
	return NewInteraction(ecs.NewWorld(), p)
}

func TestScreenToSim(t *testing.T) {
	tests := []struct {
		x, y  float32
		wantX float32
		wantY float32
	}{
		{400, 300, 0, 0},
		{0, 0, -400, 300},
		{800, 600, 400, -300},
	}
	for _, tc := range tests {
		got := ScreenToSim(tc.x, tc.y, 800, 600)
		if got.X != tc.wantX || got.Y != tc.wantY {
			t.Errorf("ScreenToSim(%v,%v) = (%v,%v), want (%v,%v)", tc.x, tc.y, got.X, got.Y, tc.wantX, tc.wantY)
		}
	}
}

func TestPointerVelocitySampling(t *testing.T) {
	s := newTestInteraction(InteractionParams{BlowDecay: 0.9})

	s.UpdatePointer(PointerInput{X: 100, Y: 100, Inside: true, NowMS: 100})
	s.UpdatePointer(PointerInput{X: 150, Y: 120, Inside: true, NowMS: 110})
	_, vel, _ := s.Pointer()
	if vel.X != 0 || vel.Y != 0 {
		t.Fatalf("velocity sampled within 16ms: %+v", vel)
	}

	s.UpdatePointer(PointerInput{X: 150, Y: 120, Inside: true, NowMS: 125})
	pos, vel, ptr := s.Pointer()
	if math.Abs(float64(vel.X)-2) > 1e-5 || math.Abs(float64(vel.Y)-0.8) > 1e-5 {
		t.Errorf("velocity = %+v, want (2, 0.8) px/ms", vel)
	}
	if !ptr.Active {
		t.Error("pointer not active after moving inside")
	}
	if want := ScreenToSim(150, 120, 800, 600); pos != want {
		t.Errorf("position = %+v, want %+v", pos, want)
	}

	s.UpdatePointer(PointerInput{Inside: false, NowMS: 200})
	if _, vel, _ := s.Pointer(); vel != (components.Velocity{}) {
		t.Errorf("velocity = %+v after leaving, want zero", vel)
	}
}

func TestBlowDecays(t *testing.T) {
	s := newTestInteraction(InteractionParams{BlowDecay: 0.5})
	s.UpdatePointer(PointerInput{Blow: true})
	if _, _, p := s.Pointer(); p.Blow != 1 {
		t.Fatalf("Blow = %v while held, want 1", p.Blow)
	}
	s.UpdatePointer(PointerInput{})
	if _, _, p := s.Pointer(); p.Blow != 0.5 {
		t.Errorf("Blow = %v after release, want 0.5", p.Blow)
	}
	for i := 0; i < 10; i++ {
		s.UpdatePointer(PointerInput{})
	}
	if _, _, p := s.Pointer(); p.Blow != 0 {
		t.Errorf("Blow = %v, want snapped to 0", p.Blow)
	}
}

func TestPlaceWellEvictsOldest(t *testing.T) {
	s := newTestInteraction(InteractionParams{MaxWells: 3, WellStrength: 2})
	for i := 0; i < 5; i++ {
		s.PlaceWell(components.Position{X: float32(i)})
	}
	if got := s.WellCount(); got != 3 {
		t.Fatalf("WellCount = %d, want 3", got)
	}

	var u forces.Uniforms
	s.Fill(&u)
	if u.WellCount != 3 {
		t.Fatalf("uniform WellCount = %d, want 3", u.WellCount)
	}
	for i := 0; i < 3; i++ {
		if got, want := u.Wells[i].Pos[0], float32(i+2); got != want {
			t.Errorf("well %d at x=%v, want %v", i, got, want)
		}
		if u.Wells[i].Strength != 2 {
			t.Errorf("well %d strength = %v, want 2", i, u.Wells[i].Strength)
		}
	}

	s.ClearWells()
	s.Fill(&u)
	if u.WellCount != 0 || u.Wells[0] != (forces.Well{}) {
		t.Errorf("wells remain after ClearWells: %+v", u.Wells)
	}
}

func TestWellLifetime(t *testing.T) {
	s := newTestInteraction(InteractionParams{WellLifetime: 2})
	s.PlaceWell(components.Position{})

	s.Update(1)
	var u forces.Uniforms
	s.Fill(&u)
	if u.WellCount != 1 || math.Abs(float64(u.Wells[0].Strength)-0.5) > 1e-6 {
		t.Fatalf("half-aged well = %+v (count %d), want strength 0.5", u.Wells[0], u.WellCount)
	}

	s.Update(1.5)
	if got := s.WellCount(); got != 0 {
		t.Errorf("WellCount = %d after expiry, want 0", got)
	}
}

func TestFillPointerUniforms(t *testing.T) {
	s := newTestInteraction(InteractionParams{})
	s.UpdatePointer(PointerInput{X: 400, Y: 300, Inside: true, Down: true, NowMS: 100})

	var u forces.Uniforms
	s.Fill(&u)
	if !u.Click || !u.MouseActive {
		t.Errorf("Click=%v MouseActive=%v, want both set", u.Click, u.MouseActive)
	}
	if u.Mouse != (forces.Vec3{}) {
		t.Errorf("Mouse = %v, want origin for the screen centre", u.Mouse)
	}
}

func TestRegistryNames(t *testing.T) {
	r := NewSystemRegistry()
	if got := r.GetName(PhaseCompute); got != "Compute" {
		t.Errorf("GetName = %q", got)
	}
	if got := r.GetName("unknown"); got != "unknown" {
		t.Errorf("GetName fallback = %q", got)
	}
	if len(r.IDs()) != len(r.All()) {
		t.Error("IDs and All disagree")
	}
}
