package world

import "testing"

func TestTimersStartDoesNotOverwrite(t *testing.T) {
	tm := NewTimers()
	if !tm.Start(1, 5) {
		t.Fatalf("first Start should create entry")
	}
	if tm.Start(1, 9) {
		t.Fatalf("second Start should not overwrite")
	}
	if n, _ := tm.Remaining(1); n != 5 {
		t.Fatalf("remaining = %d, want 5", n)
	}
}

func TestTimersExtendAccumulates(t *testing.T) {
	tm := NewTimers()
	tm.Extend(7, 24)
	tm.Extend(7, 24)
	if n, _ := tm.Remaining(7); n != 48 {
		t.Fatalf("remaining = %d, want 48", n)
	}
}

func TestTimersAdvanceRemovesExpired(t *testing.T) {
	tm := NewTimers()
	tm.Set(1, 1)
	tm.Set(2, 3)

	left := tm.Advance()
	if left[1] != 0 || left[2] != 2 {
		t.Fatalf("advance = %v", left)
	}
	if tm.Has(1) {
		t.Fatalf("expired entry still present")
	}
	if !tm.Has(2) {
		t.Fatalf("live entry removed")
	}

	tm.Advance()
	tm.Advance()
	if tm.Len() != 0 {
		t.Fatalf("len = %d, want 0", tm.Len())
	}
}

func TestWorldAddWallsRejectsDiagonal(t *testing.T) {
	w := New(2000, 10)
	err := w.AddWalls([]Wall{
		{ID: 0, P1: Vec(0, 0), P2: Vec(0, 100)},
		{ID: 1, P1: Vec(0, 0), P2: Vec(50, 50)},
	})
	if err == nil {
		t.Fatalf("expected error for diagonal wall")
	}
}

func TestWorldAddWallsRejectsDuplicateID(t *testing.T) {
	w := New(2000, 10)
	walls := []Wall{{ID: 3, P1: Vec(0, 0), P2: Vec(0, 100)}}
	if err := w.AddWalls(walls); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := w.AddWalls(walls); err == nil {
		t.Fatalf("expected duplicate id error")
	}
	if w.Walls.Len() != 1 {
		t.Fatalf("walls = %d, want 1", w.Walls.Len())
	}
}
