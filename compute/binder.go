package compute

// Mode selects which buffer of a dependency a program reads.
type Mode uint8

const (
	// ReadCurrent reads the dependency's output from the previous tick.
	// All variables bound this way see one consistent snapshot.
	ReadCurrent Mode = iota
	// ReadNext reads the dependency's output from this tick. Only allowed for
	// variables declared earlier, whose pass has already completed.
	ReadNext
)

// Dependency names a variable to read and how.
type Dependency struct {
	Name string
	Mode Mode
}

// Current is shorthand for a ReadCurrent dependency.
func Current(name string) Dependency { return Dependency{Name: name, Mode: ReadCurrent} }

// Next is shorthand for a ReadNext dependency.
func Next(name string) Dependency { return Dependency{Name: name, Mode: ReadNext} }

// Binding is one resolved input of a variable's program.
type Binding struct {
	Name   string // dependency name, as the program refers to it
	Slot   int    // input slot, in bind order
	Source int    // index of the dependency in declaration order
	Mode   Mode
}

// Binder records dependencies in declaration order and produces a Plan.
type Binder struct {
	names     []string
	index     map[string]int
	bindings  map[int][]Binding
	plan      *Plan
	finalized bool
}

// NewBinder creates an empty binder.
func NewBinder() *Binder {
	return &Binder{
		index:    make(map[string]int),
		bindings: make(map[int][]Binding),
	}
}

// Declare registers a variable. Declaration order is execution order.
func (b *Binder) Declare(name string) (int, error) {
	if b.finalized {
		return 0, &ConfigurationError{Variable: name, Reason: "declared after the binding plan was finalized"}
	}
	if name == "" {
		return 0, &ConfigurationError{Reason: "variable name is empty"}
	}
	if _, ok := b.index[name]; ok {
		return 0, &ConfigurationError{Variable: name, Reason: "declared twice"}
	}
	i := len(b.names)
	b.index[name] = i
	b.names = append(b.names, name)
	return i, nil
}

// Bind sets the inputs of a variable, replacing any previous binding.
// Duplicate dependencies are bound once.
func (b *Binder) Bind(variable string, deps ...Dependency) error {
	if b.finalized {
		return &ConfigurationError{Variable: variable, Reason: "dependencies changed after the binding plan was finalized"}
	}
	self, ok := b.index[variable]
	if !ok {
		return &ConfigurationError{Variable: variable, Reason: "not a declared variable"}
	}

	bound := make([]Binding, 0, len(deps))
	seen := make(map[string]bool, len(deps))
	for _, dep := range deps {
		src, ok := b.index[dep.Name]
		if !ok {
			return &ConfigurationError{Variable: variable, Reason: "dependency " + dep.Name + " is not a declared variable"}
		}
		if dep.Mode == ReadNext && src >= self {
			return &CycleError{Variable: variable, Dependency: dep.Name}
		}
		if seen[dep.Name] {
			continue
		}
		seen[dep.Name] = true
		bound = append(bound, Binding{Name: dep.Name, Slot: len(bound), Source: src, Mode: dep.Mode})
	}
	b.bindings[self] = bound
	return nil
}

// Finalize locks the binder and returns the immutable plan. Calling it again
// returns the same plan.
func (b *Binder) Finalize() *Plan {
	if b.finalized {
		return b.plan
	}
	inputs := make([][]Binding, len(b.names))
	for i := range b.names {
		inputs[i] = b.bindings[i]
	}
	names := make([]string, len(b.names))
	copy(names, b.names)
	b.plan = &Plan{names: names, inputs: inputs}
	b.finalized = true
	return b.plan
}

// Finalized reports whether the plan is locked.
func (b *Binder) Finalized() bool { return b.finalized }

// Plan is the fixed binding table: for each variable in declaration order,
// the ordered inputs its program reads.
type Plan struct {
	names  []string
	inputs [][]Binding
}

// Len returns the number of variables.
func (p *Plan) Len() int { return len(p.names) }

// Name returns the name of variable i.
func (p *Plan) Name(i int) string { return p.names[i] }

// Inputs returns the bindings of variable i. The slice must not be modified.
func (p *Plan) Inputs(i int) []Binding { return p.inputs[i] }
