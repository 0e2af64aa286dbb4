package compute

import (
	"errors"
	"testing"
)

func TestBinderPlan(t *testing.T) {
	b := NewBinder()
	for _, name := range []string{"pos", "vel"} {
		if _, err := b.Declare(name); err != nil {
			t.Fatal(err)
		}
	}
	if err := b.Bind("pos", Current("pos"), Current("vel"), Current("pos")); err != nil {
		t.Fatalf("Bind pos: %v", err)
	}
	if err := b.Bind("vel", Current("pos"), Current("vel")); err != nil {
		t.Fatalf("Bind vel: %v", err)
	}

	plan := b.Finalize()
	if plan.Len() != 2 {
		t.Fatalf("plan.Len() = %d, want 2", plan.Len())
	}
	in := plan.Inputs(0)
	if len(in) != 2 {
		t.Fatalf("pos has %d inputs, want 2 (duplicates bound once)", len(in))
	}
	if in[0].Name != "pos" || in[0].Slot != 0 || in[0].Source != 0 {
		t.Errorf("slot 0 = %+v", in[0])
	}
	if in[1].Name != "vel" || in[1].Slot != 1 || in[1].Source != 1 {
		t.Errorf("slot 1 = %+v", in[1])
	}
	if b.Finalize() != plan {
		t.Error("second Finalize returned a different plan")
	}
}

func TestBinderErrors(t *testing.T) {
	tests := []struct {
		name    string
		run     func(b *Binder) error
		wantCfg bool
		wantCyc bool
	}{
		{
			name: "unknown dependency",
			run: func(b *Binder) error {
				return b.Bind("pos", Current("acc"))
			},
			wantCfg: true,
		},
		{
			name: "unknown variable",
			run: func(b *Binder) error {
				return b.Bind("acc", Current("pos"))
			},
			wantCfg: true,
		},
		{
			name: "bind after finalize",
			run: func(b *Binder) error {
				b.Finalize()
				return b.Bind("pos", Current("vel"))
			},
			wantCfg: true,
		},
		{
			name: "declare after finalize",
			run: func(b *Binder) error {
				b.Finalize()
				_, err := b.Declare("acc")
				return err
			},
			wantCfg: true,
		},
		{
			name: "duplicate declaration",
			run: func(b *Binder) error {
				_, err := b.Declare("pos")
				return err
			},
			wantCfg: true,
		},
		{
			name: "next of later variable",
			run: func(b *Binder) error {
				return b.Bind("pos", Next("vel"))
			},
			wantCyc: true,
		},
		{
			name: "next of self",
			run: func(b *Binder) error {
				return b.Bind("vel", Next("vel"))
			},
			wantCyc: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBinder()
			b.Declare("pos")
			b.Declare("vel")

			err := tt.run(b)
			var cfgErr *ConfigurationError
			var cycErr *CycleError
			if tt.wantCfg && !errors.As(err, &cfgErr) {
				t.Errorf("expected ConfigurationError, got %v", err)
			}
			if tt.wantCyc && !errors.As(err, &cycErr) {
				t.Errorf("expected CycleError, got %v", err)
			}
		})
	}
}

func TestBinderNextOfEarlierVariable(t *testing.T) {
	b := NewBinder()
	b.Declare("vel")
	b.Declare("pos")
	if err := b.Bind("pos", Current("pos"), Next("vel")); err != nil {
		t.Fatalf("reading an earlier variable's output should be allowed: %v", err)
	}
	plan := b.Finalize()
	if got := plan.Inputs(1)[1].Mode; got != ReadNext {
		t.Errorf("mode = %v, want ReadNext", got)
	}
}
