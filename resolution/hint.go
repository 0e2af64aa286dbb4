package resolution

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const hintFile = "swarm_state.yaml"

// Hint is the state carried across sessions.
type Hint struct {
	TierWidth int       `yaml:"tier_width"`
	Shape     string    `yaml:"shape,omitempty"`
	SavedAt   time.Time `yaml:"saved_at"`
}

// HintStore reads and writes the hint file in a state directory. A zero
// HintStore (empty dir) loads nothing and saves nothing.
type HintStore struct {
	dir string
}

// NewHintStore returns a store rooted at dir.
func NewHintStore(dir string) *HintStore {
	return &HintStore{dir: dir}
}

// Path returns the hint file path, or "" when persistence is disabled.
func (h *HintStore) Path() string {
	if h == nil || h.dir == "" {
		return ""
	}
	return filepath.Join(h.dir, hintFile)
}

// Load returns the saved hint. A missing file is not an error.
func (h *HintStore) Load() (Hint, error) {
	path := h.Path()
	if path == "" {
		return Hint{}, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Hint{}, nil
	}
	if err != nil {
		return Hint{}, fmt.Errorf("reading hint: %w", err)
	}
	var hint Hint
	if err := yaml.Unmarshal(data, &hint); err != nil {
		return Hint{}, fmt.Errorf("parsing hint %s: %w", path, err)
	}
	return hint, nil
}

// Save writes hint, replacing the previous file.
func (h *HintStore) Save(hint Hint) error {
	path := h.Path()
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(h.dir, 0755); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}
	if hint.SavedAt.IsZero() {
		hint.SavedAt = time.Now().UTC()
	}
	data, err := yaml.Marshal(hint)
	if err != nil {
		return fmt.Errorf("marshaling hint: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing hint: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing hint: %w", err)
	}
	return nil
}

// Update loads the current hint, applies fn and saves the result.
func (h *HintStore) Update(fn func(*Hint)) error {
	hint, err := h.Load()
	if err != nil {
		return err
	}
	fn(&hint)
	hint.SavedAt = time.Time{}
	return h.Save(hint)
}
