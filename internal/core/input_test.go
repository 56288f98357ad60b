package core

import "testing"

func TestInputFrame(t *testing.T) {
	var f InputFrame
	if !f.Empty() {
		t.Error("zero frame should be empty")
	}

	f.Set(ActionSwing)
	f.Set(ActionLeft)
	f.Set(ActionSwing)
	if !f.Has(ActionLeft) || !f.Has(ActionSwing) {
		t.Errorf("frame = %v, expected Left and Swing", f)
	}
	if f.Has(ActionRight) {
		t.Error("Right was never set")
	}
	if got := f.String(); got != "[Left Swing]" {
		t.Errorf("String() = %q, expected [Left Swing]", got)
	}

	// Out-of-range actions are ignored
	f.Set(ActionNone)
	f.Set(Action(99))
	if len(f.Actions()) != 2 || f.Has(Action(99)) {
		t.Errorf("Actions() = %v, expected two actions", f.Actions())
	}
}
