package compute

import "fmt"

// Store owns the ping and pong surfaces of every variable and the single
// current-index flag they share. All variables flip together on Swap.
type Store struct {
	device        Device
	width, height int

	names   []string
	index   map[string]int
	buffers [][2]*Surface

	current  int
	disposed bool
}

// NewStore creates an empty store whose surfaces will be width x height.
func NewStore(device Device, width, height int) *Store {
	return &Store{
		device: device,
		width:  width,
		height: height,
		index:  make(map[string]int),
	}
}

// Allocate creates both surfaces for a variable. On failure nothing is retained.
func (s *Store) Allocate(name string) error {
	if s.disposed {
		return ErrStaleHandle
	}
	if _, ok := s.index[name]; ok {
		return &ConfigurationError{Variable: name, Reason: "surfaces already allocated"}
	}
	ping, err := s.device.Allocate(s.width, s.height)
	if err != nil {
		return err
	}
	pong, err := s.device.Allocate(s.width, s.height)
	if err != nil {
		s.device.Release(ping)
		return err
	}
	s.index[name] = len(s.names)
	s.names = append(s.names, name)
	s.buffers = append(s.buffers, [2]*Surface{ping, pong})
	return nil
}

// Seed copies initial data into both surfaces of a variable, so either one is
// a valid current buffer before the first tick. nil data leaves them zeroed.
func (s *Store) Seed(name string, data []float32) error {
	i, ok := s.index[name]
	if !ok {
		return &ConfigurationError{Variable: name, Reason: "seeding a variable without surfaces"}
	}
	if data == nil {
		return nil
	}
	want := s.width * s.height * Channels
	if len(data) != want {
		return &ConfigurationError{
			Variable: name,
			Reason:   fmt.Sprintf("initial data has %d floats, want %d", len(data), want),
		}
	}
	copy(s.buffers[i][0].data, data)
	copy(s.buffers[i][1].data, data)
	return nil
}

// Swap flips the shared current index for every variable at once.
func (s *Store) Swap() { s.current ^= 1 }

// CurrentIndex returns which of the two surfaces is current (0 or 1).
func (s *Store) CurrentIndex() int { return s.current }

// Size returns the surface dimensions.
func (s *Store) Size() (width, height int) { return s.width, s.height }

// Len returns the number of variables with surfaces.
func (s *Store) Len() int { return len(s.names) }

// Current returns the current surface of a variable, or nil if unknown.
func (s *Store) Current(name string) *Surface {
	i, ok := s.index[name]
	if !ok || s.disposed {
		return nil
	}
	return s.buffers[i][s.current]
}

// Next returns the surface a tick writes for a variable, or nil if unknown.
func (s *Store) Next(name string) *Surface {
	i, ok := s.index[name]
	if !ok || s.disposed {
		return nil
	}
	return s.buffers[i][s.current^1]
}

func (s *Store) currentAt(i int) *Surface { return s.buffers[i][s.current] }
func (s *Store) nextAt(i int) *Surface    { return s.buffers[i][s.current^1] }

// Snapshot returns a copy of a variable's current data.
func (s *Store) Snapshot(name string) ([]float32, error) {
	if s.disposed {
		return nil, ErrStaleHandle
	}
	cur := s.Current(name)
	if cur == nil {
		return nil, &ConfigurationError{Variable: name, Reason: "unknown variable"}
	}
	out := make([]float32, len(cur.data))
	copy(out, cur.data)
	return out, nil
}

// settleRows copies rows [from, to) of every current surface into the next
// surface, so cells leaving the scissor window keep one value in both buffers.
func (s *Store) settleRows(from, to int) {
	if from >= to {
		return
	}
	lo := from * s.width * Channels
	hi := to * s.width * Channels
	for i := range s.buffers {
		copy(s.nextAt(i).data[lo:hi], s.currentAt(i).data[lo:hi])
	}
}

// Dispose releases every surface. The store is unusable afterwards.
func (s *Store) Dispose() {
	if s.disposed {
		return
	}
	for _, pair := range s.buffers {
		s.device.Release(pair[0])
		s.device.Release(pair[1])
	}
	s.disposed = true
}

// Disposed reports whether Dispose has been called.
func (s *Store) Disposed() bool { return s.disposed }
