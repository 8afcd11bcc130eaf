package id

import "testing"

func TestRandomGenerator_NewID(t *testing.T) {
	gen := NewRandomGenerator(8)

	first, err := gen.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	second, err := gen.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}

	if len(first) != 16 {
		t.Fatalf("expected 16 hex chars, got %d", len(first))
	}
	if first == second {
		t.Fatalf("expected distinct ids, got %q twice", first)
	}
}

func TestRandomGenerator_DefaultSize(t *testing.T) {
	got, err := NewRandomGenerator(0).NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	if len(got) != 32 {
		t.Fatalf("expected 32 hex chars, got %d", len(got))
	}
}
