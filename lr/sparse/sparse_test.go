package sparse

import (
	"testing"
)

func TestMatrixAddAndValues(t *testing.T) {
	M := NewMatrix[int](3, 3)
	if M.ValueCount() != 0 {
		t.Errorf("expected empty matrix, have %d values", M.ValueCount())
	}
	M.Add(2, 1, 7)
	M.Add(0, 2, 4711)
	M.Add(2, 1, 8)
	if M.ValueCount() != 2 {
		t.Errorf("expected 2 positions to be set, have %d", M.ValueCount())
	}
	if v := M.Values(2, 1); len(v) != 2 || v[0] != 7 || v[1] != 8 {
		t.Errorf("expected (2,1) = [7 8], is %v", v)
	}
	if v, ok := M.Value(0, 2); !ok || v != 4711 {
		t.Errorf("expected (0,2) = 4711, is %d", v)
	}
	if _, ok := M.Value(1, 1); ok {
		t.Errorf("expected (1,1) to be empty")
	}
}

func TestMatrixOrder(t *testing.T) {
	M := NewMatrix[string](1, 1)
	M.Add(1, 0, "b")
	M.Add(0, 5, "a")
	M.Add(1, 3, "c")
	M.Add(0, 1, "x")
	var seq []string
	M.Each(func(i, j int, values []string) {
		seq = append(seq, values...)
	})
	expected := []string{"x", "a", "b", "c"}
	for k := range expected {
		if seq[k] != expected[k] {
			t.Fatalf("expected row-major order %v, have %v", expected, seq)
		}
	}
	if M.M() != 2 || M.N() != 6 {
		t.Errorf("expected matrix to grow to 2 x 6, is %d x %d", M.M(), M.N())
	}
	var cols []int
	M.Row(1, func(j int, values []string) {
		cols = append(cols, j)
	})
	if len(cols) != 2 || cols[0] != 0 || cols[1] != 3 {
		t.Errorf("expected row 1 to have columns [0 3], has %v", cols)
	}
}
