package domain

import "testing"

func mustSpace(t *testing.T, bits, succListSize int) Space {
	t.Helper()
	sp, err := NewSpace(bits, succListSize)
	if err != nil {
		t.Fatalf("NewSpace(%d, %d): %v", bits, succListSize, err)
	}
	return sp
}

func TestBetween(t *testing.T) {
	sp := mustSpace(t, 8, 3)

	tests := []struct {
		name string
		x, a, b uint64
		want bool
	}{
		{"linear inside", 5, 1, 10, true},
		{"linear at upper bound", 10, 1, 10, true},
		{"linear at lower bound excluded", 1, 1, 10, false},
		{"linear outside", 20, 1, 10, false},
		{"wrap inside upper arc", 250, 200, 10, true},
		{"wrap inside lower arc", 5, 200, 10, true},
		{"wrap outside", 100, 200, 10, false},
		{"whole ring when a==b", 0, 7, 7, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := sp.FromUint64(tt.x)
			a := sp.FromUint64(tt.a)
			b := sp.FromUint64(tt.b)
			if got := x.Between(a, b); got != tt.want {
				t.Errorf("Between(%d in (%d,%d]) = %v, want %v", tt.x, tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestFingerStart(t *testing.T) {
	sp := mustSpace(t, 8, 3)
	self := sp.FromUint64(10)

	got, err := sp.FingerStart(self, 0)
	if err != nil {
		t.Fatalf("FingerStart(0): %v", err)
	}
	if want := sp.FromUint64(11); !got.Equal(want) {
		t.Errorf("finger 0 start = %v, want %v", got, want)
	}

	got, err = sp.FingerStart(self, 7)
	if err != nil {
		t.Fatalf("FingerStart(7): %v", err)
	}
	// (10 + 128) mod 256 = 138
	if want := sp.FromUint64(138); !got.Equal(want) {
		t.Errorf("finger 7 start = %v, want %v", got, want)
	}

	if _, err := sp.FingerStart(self, 8); err == nil {
		t.Error("expected error for out-of-range finger index")
	}
}

func TestDistLeft(t *testing.T) {
	sp := mustSpace(t, 8, 3)

	a := sp.FromUint64(5)
	b := sp.FromUint64(250)
	d := sp.DistLeft(a, b)
	if d.Int64() != 11 {
		t.Errorf("DistLeft(5,250) = %v, want 11", d)
	}

	c := sp.FromUint64(200)
	d2 := sp.DistLeft(c, b)
	if d2.Int64() != 206 {
		t.Errorf("DistLeft(200,250) = %v, want 206", d2)
	}
}

func TestFromHexStringRoundTrip(t *testing.T) {
	sp := mustSpace(t, 12, 3)
	id := sp.FromUint64(0xABC)

	hexStr := id.ToHexString(false)
	back, err := sp.FromHexString(hexStr)
	if err != nil {
		t.Fatalf("FromHexString(%q): %v", hexStr, err)
	}
	if !back.Equal(id) {
		t.Errorf("round trip mismatch: got %v, want %v", back, id)
	}

	if _, err := sp.FromHexString("1000"); err == nil {
		t.Error("expected error for value exceeding 12-bit space")
	}
}

func TestNewIdFromStringDeterministic(t *testing.T) {
	sp := mustSpace(t, 160, 3)
	a := sp.NewIdFromString("127.0.0.1:5000")
	b := sp.NewIdFromString("127.0.0.1:5000")
	if !a.Equal(b) {
		t.Error("NewIdFromString is not deterministic for the same input")
	}
	if err := sp.IsValidID(a); err != nil {
		t.Errorf("derived id is not valid: %v", err)
	}
}
