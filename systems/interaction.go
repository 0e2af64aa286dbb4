package systems

import (
	"cmp"
	"slices"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/swarm/components"
	"github.com/pthm-cable/swarm/forces"
)

// Simulation-space extent covered by the window, centred on the origin.
const (
	ViewExtentX = 800
	ViewExtentY = 600
)

// pointerSampleMS is the minimum interval between pointer velocity samples.
const pointerSampleMS = 16

// InteractionParams configure the interaction system.
type InteractionParams struct {
	MaxWells     int
	WellLifetime float32 // seconds, 0 keeps wells until replaced
	WellStrength float32 // strength of newly placed wells
	BlowDecay    float32 // per-frame multiplier on the blow level once released
	ScreenW      float32
	ScreenH      float32

	// Unproject maps a screen pixel into simulation space. nil uses ScreenToSim.
	Unproject func(x, y float32) components.Position
}

// PointerInput is one frame of raw pointer state in screen pixels.
type PointerInput struct {
	X, Y   float32
	Inside bool
	Down   bool
	Blow   bool
	NowMS  float64
}

// Interaction owns the pointer entity and the gravity well entities, and
// turns them into force uniforms each frame.
type Interaction struct {
	params InteractionParams

	wellMapper *ecs.Map2[components.Position, components.Well]
	wellFilter *ecs.Filter2[components.Position, components.Well]

	pointer    ecs.Entity
	posMap     *ecs.Map1[components.Position]
	velMap     *ecs.Map1[components.Velocity]
	pointerMap *ecs.Map1[components.Pointer]

	serial uint64
}

// NewInteraction creates the system and its pointer entity in world.
func NewInteraction(world *ecs.World, p InteractionParams) *Interaction {
	if p.MaxWells <= 0 || p.MaxWells > forces.MaxWells {
		p.MaxWells = forces.MaxWells
	}
	if p.WellStrength == 0 {
		p.WellStrength = 1
	}
	s := &Interaction{
		params:     p,
		wellMapper: ecs.NewMap2[components.Position, components.Well](world),
		wellFilter: ecs.NewFilter2[components.Position, components.Well](world),
		posMap:     ecs.NewMap1[components.Position](world),
		velMap:     ecs.NewMap1[components.Velocity](world),
		pointerMap: ecs.NewMap1[components.Pointer](world),
	}
	pointerMapper := ecs.NewMap3[components.Position, components.Velocity, components.Pointer](world)
	s.pointer = pointerMapper.NewEntity(&components.Position{}, &components.Velocity{}, &components.Pointer{})
	return s
}

// SetParams applies new tunables. Existing wells keep their lifetime.
func (s *Interaction) SetParams(p InteractionParams) {
	if p.MaxWells <= 0 || p.MaxWells > forces.MaxWells {
		p.MaxWells = forces.MaxWells
	}
	if p.WellStrength == 0 {
		p.WellStrength = 1
	}
	s.params = p
}

// ScreenToSim maps a screen pixel onto the z=0 plane of simulation space.
func ScreenToSim(x, y, screenW, screenH float32) components.Position {
	return components.Position{
		X: (x/screenW - 0.5) * ViewExtentX,
		Y: -(y/screenH - 0.5) * ViewExtentY,
	}
}

// UpdatePointer records one frame of pointer input. Velocity is sampled at
// most every 16ms in pixels per millisecond.
func (s *Interaction) UpdatePointer(in PointerInput) {
	pos := s.posMap.Get(s.pointer)
	vel := s.velMap.Get(s.pointer)
	ptr := s.pointerMap.Get(s.pointer)

	ptr.Down = in.Down && in.Inside
	if in.Blow {
		ptr.Blow = 1
	} else {
		ptr.Blow *= s.params.BlowDecay
		if ptr.Blow < 0.01 {
			ptr.Blow = 0
		}
	}

	if !in.Inside {
		vel.X, vel.Y = 0, 0
		return
	}
	if dt := in.NowMS - ptr.LastMS; dt > pointerSampleMS {
		if ptr.LastMS > 0 {
			vel.X = (in.X - ptr.LastX) / float32(dt)
			vel.Y = (in.Y - ptr.LastY) / float32(dt)
		}
		ptr.LastX, ptr.LastY, ptr.LastMS = in.X, in.Y, in.NowMS
		if s.params.Unproject != nil {
			*pos = s.params.Unproject(in.X, in.Y)
		} else {
			*pos = ScreenToSim(in.X, in.Y, s.params.ScreenW, s.params.ScreenH)
		}
		ptr.Active = true
	}
}

// Pointer returns the pointer state.
func (s *Interaction) Pointer() (components.Position, components.Velocity, components.Pointer) {
	return *s.posMap.Get(s.pointer), *s.velMap.Get(s.pointer), *s.pointerMap.Get(s.pointer)
}

// PlaceWell adds a well at pos, evicting the oldest when the limit is reached.
func (s *Interaction) PlaceWell(pos components.Position) ecs.Entity {
	if s.WellCount() >= s.params.MaxWells {
		var oldest ecs.Entity
		var oldestSerial uint64
		found := false
		query := s.wellFilter.Query()
		for query.Next() {
			_, w := query.Get()
			if !found || w.Serial < oldestSerial {
				oldest, oldestSerial, found = query.Entity(), w.Serial, true
			}
		}
		if found {
			s.wellMapper.Remove(oldest)
		}
	}
	s.serial++
	w := components.Well{
		Strength: s.params.WellStrength,
		Lifetime: s.params.WellLifetime,
		Serial:   s.serial,
	}
	return s.wellMapper.NewEntity(&pos, &w)
}

// ClearWells removes every well.
func (s *Interaction) ClearWells() {
	var all []ecs.Entity
	query := s.wellFilter.Query()
	for query.Next() {
		all = append(all, query.Entity())
	}
	for _, e := range all {
		s.wellMapper.Remove(e)
	}
}

// WellCount returns the number of live wells.
func (s *Interaction) WellCount() int {
	n := 0
	query := s.wellFilter.Query()
	for query.Next() {
		n++
	}
	return n
}

// WellState is a copy of one well's components.
type WellState struct {
	Position components.Position
	Well     components.Well
}

// Wells returns the live wells, oldest first.
func (s *Interaction) Wells() []WellState {
	var out []WellState
	query := s.wellFilter.Query()
	for query.Next() {
		p, w := query.Get()
		out = append(out, WellState{Position: *p, Well: *w})
	}
	slices.SortFunc(out, func(a, b WellState) int { return cmp.Compare(a.Well.Serial, b.Well.Serial) })
	return out
}

// Update ages wells by dt seconds and removes expired ones.
func (s *Interaction) Update(dt float32) {
	var expired []ecs.Entity
	query := s.wellFilter.Query()
	for query.Next() {
		_, w := query.Get()
		w.Age += dt
		if w.Lifetime > 0 && w.Age >= w.Lifetime {
			expired = append(expired, query.Entity())
		}
	}
	for _, e := range expired {
		s.wellMapper.Remove(e)
	}
}

// Fill writes pointer and well state into u, oldest well first.
func (s *Interaction) Fill(u *forces.Uniforms) {
	pos, vel, ptr := s.Pointer()
	u.Mouse = forces.Vec3{pos.X, pos.Y, pos.Z}
	u.MouseActive = ptr.Active
	u.MouseVel = [2]float32{vel.X, vel.Y}
	u.Click = ptr.Down
	u.Blow = ptr.Blow

	wells := s.Wells()
	u.WellCount = min(len(wells), forces.MaxWells)
	u.Wells = [forces.MaxWells]forces.Well{}
	for i := 0; i < u.WellCount; i++ {
		p, w := wells[i].Position, wells[i].Well
		strength := w.Strength
		if w.Lifetime > 0 {
			strength *= clamp01(1 - w.Age/w.Lifetime)
		}
		u.Wells[i] = forces.Well{Pos: forces.Vec3{p.X, p.Y, p.Z}, Strength: strength}
	}
}

func clamp01(v float32) float32 { return max(0, min(v, 1)) }
