package hotkey

import (
	"testing"

	"github.com/soocke/splash-fisher/domain/fishing"
)

func TestBindings_Classify(t *testing.T) {
	b := NewBindings("P", " q ")
	if c, ok := b.Classify("p"); !ok || c != fishing.ControlPauseToggle {
		t.Fatalf("p should toggle pause, got %v %v", c, ok)
	}
	if c, ok := b.Classify("Q"); !ok || c != fishing.ControlEmergencyExit {
		t.Fatalf("q should trigger emergency exit, got %v %v", c, ok)
	}
	if _, ok := b.Classify("x"); ok {
		t.Fatalf("unbound key should not classify")
	}
}

func TestBindings_SkipsEmptyKeys(t *testing.T) {
	b := NewBindings("", "q")
	if len(b) != 1 {
		t.Fatalf("expected one binding, got %v", b)
	}
	if _, ok := b.Classify(""); ok {
		t.Fatalf("empty key must not classify")
	}
}

func TestListener_SetBindingsReplacesKeys(t *testing.T) {
	l := NewListener(NewBindings("p", "q"), nil)
	if c, ok := l.classify("p"); !ok || c != fishing.ControlPauseToggle {
		t.Fatalf("p should toggle pause before rebinding, got %v %v", c, ok)
	}

	l.SetBindings(NewBindings("f8", "f12"))
	if _, ok := l.classify("p"); ok {
		t.Fatalf("old pause key should no longer classify")
	}
	if c, ok := l.classify("F8"); !ok || c != fishing.ControlPauseToggle {
		t.Fatalf("f8 should toggle pause after rebinding, got %v %v", c, ok)
	}
	if c, ok := l.classify("f12"); !ok || c != fishing.ControlEmergencyExit {
		t.Fatalf("f12 should trigger emergency exit after rebinding, got %v %v", c, ok)
	}
}
