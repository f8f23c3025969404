package seed

import "testing"

func TestForRun(t *testing.T) {
	t.Run("nil base stays unseeded for every run", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			if got := ForRun(nil, i); got != nil {
				t.Errorf("ForRun(nil, %d) = %d, want nil", i, *got)
			}
		}
	})

	t.Run("base plus index", func(t *testing.T) {
		base := int64(40)
		for i := 0; i < 3; i++ {
			got := ForRun(&base, i)
			if got == nil {
				t.Fatalf("ForRun(40, %d) = nil", i)
			}
			if *got != 40+int64(i) {
				t.Errorf("ForRun(40, %d) = %d, want %d", i, *got, 40+i)
			}
		}
	})

	t.Run("zero is a real seed", func(t *testing.T) {
		base := int64(0)
		got := ForRun(&base, 2)
		if got == nil || *got != 2 {
			t.Errorf("ForRun(0, 2) = %v, want 2", got)
		}
	})

	t.Run("does not alias the base", func(t *testing.T) {
		base := int64(7)
		got := ForRun(&base, 0)
		*got = 99
		if base != 7 {
			t.Errorf("base = %d after mutating result, want 7", base)
		}
	})
}

func TestNew_SeededStreamsRepeat(t *testing.T) {
	a := New(Ptr(123))
	b := New(Ptr(123))

	for i := 0; i < 10; i++ {
		if x, y := a.Shipments.Uint64(), b.Shipments.Uint64(); x != y {
			t.Fatalf("shipments draw %d: %d != %d", i, x, y)
		}
		if x, y := a.Pest.Float64(), b.Pest.Float64(); x != y {
			t.Fatalf("pest draw %d: %v != %v", i, x, y)
		}
		if x, y := a.Inspection.IntN(1000), b.Inspection.IntN(1000); x != y {
			t.Fatalf("inspection draw %d: %d != %d", i, x, y)
		}
	}
}

func TestNew_StreamsAreIndependent(t *testing.T) {
	a := New(Ptr(5))
	b := New(Ptr(5))

	// Draining one stream must not shift another.
	for i := 0; i < 100; i++ {
		a.Shipments.Uint64()
	}
	if x, y := a.Pest.Uint64(), b.Pest.Uint64(); x != y {
		t.Errorf("pest stream shifted after shipments draws: %d != %d", x, y)
	}

	if a.Shipments.Uint64() == a.Pest.Uint64() {
		t.Error("shipments and pest streams produced the same value")
	}
}

func TestNew_DifferentSeedsDiffer(t *testing.T) {
	a := New(Ptr(1))
	b := New(Ptr(2))
	same := true
	for i := 0; i < 5; i++ {
		if a.Shipments.Uint64() != b.Shipments.Uint64() {
			same = false
		}
	}
	if same {
		t.Error("seeds 1 and 2 produced identical shipment streams")
	}
}

func TestNew_Unseeded(t *testing.T) {
	s := New(nil)
	if s.Shipments == nil || s.Pest == nil || s.Inspection == nil {
		t.Fatal("unseeded streams must all be initialized")
	}
}
