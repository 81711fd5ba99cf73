package primitives

import (
	"bytes"
	"math"
	"testing"
)

func TestAdd(t *testing.T) {
	cases := []struct {
		name string
		a, b int
		want int
	}{
		{"simple", 2, 3, 5},
		{"negative", -7, 3, -4},
		{"zero", 0, 0, 0},
		{"wraps at max", math.MaxInt, 1, math.MinInt},
		{"wraps at min", math.MinInt, -1, math.MaxInt},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Add(tc.a, tc.b); got != tc.want {
				t.Errorf("Add(%d, %d) = %d, want %d", tc.a, tc.b, got, tc.want)
			}
			if Add(tc.a, tc.b) != Add(tc.b, tc.a) {
				t.Errorf("Add(%d, %d) not commutative", tc.a, tc.b)
			}
		})
	}
}

func TestGreet(t *testing.T) {
	// Must not panic and must not care about the contents.
	Greet("world")
	Greet("")
}

func TestStrLen(t *testing.T) {
	cases := []struct {
		name string
		s    []byte
		want int
	}{
		{"empty string", []byte{0}, 0},
		{"hello", []byte("hello\x00"), 5},
		{"stops at first NUL", []byte("ab\x00cd\x00"), 2},
		{"trailing garbage after NUL", append([]byte("xyz"), 0, 'q'), 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StrLen(tc.s); got != tc.want {
				t.Errorf("StrLen(%q) = %d, want %d", tc.s, got, tc.want)
			}
		})
	}
}

func TestStrLenUnterminatedPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unterminated buffer")
		}
	}()
	StrLen([]byte("no terminator"))
}

func TestCopyBytes(t *testing.T) {
	src := []byte("abcdef")
	dst := make([]byte, 6)

	got := CopyBytes(dst, src, 4)
	if !bytes.Equal(dst[:4], src[:4]) {
		t.Errorf("dst = %q, want prefix %q", dst, src[:4])
	}
	if &got[0] != &dst[0] {
		t.Error("CopyBytes must return the destination slice")
	}

	// n = 0 is a no-op.
	before := append([]byte(nil), dst...)
	CopyBytes(dst, src, 0)
	if !bytes.Equal(dst, before) {
		t.Error("CopyBytes with n=0 modified dst")
	}
}

func TestCopyBytesFullLength(t *testing.T) {
	src := []byte{1, 2, 3}
	dst := make([]byte, 3)
	CopyBytes(dst, src, 3)
	if !bytes.Equal(dst, src) {
		t.Errorf("dst = %v, want %v", dst, src)
	}
}

func TestCopyBytesPanics(t *testing.T) {
	cases := []struct {
		name     string
		dst, src []byte
		n        int
	}{
		{"negative length", make([]byte, 4), make([]byte, 4), -1},
		{"dst too short", make([]byte, 2), make([]byte, 4), 3},
		{"src too short", make([]byte, 4), make([]byte, 2), 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatal("expected panic")
				}
			}()
			CopyBytes(tc.dst, tc.src, tc.n)
		})
	}
}

func TestSumInts(t *testing.T) {
	if got := SumInts(nil); got != 0 {
		t.Errorf("SumInts(nil) = %d, want 0", got)
	}
	if got := SumInts([]int{}); got != 0 {
		t.Errorf("SumInts(empty) = %d, want 0", got)
	}
	if got := SumInts([]int{42}); got != 42 {
		t.Errorf("SumInts([42]) = %d, want 42", got)
	}
	if got := SumInts([]int{1, 2, 3, 4}); got != 10 {
		t.Errorf("SumInts = %d, want 10", got)
	}

	// Order independence.
	if SumInts([]int{3, -1, 7, 0}) != SumInts([]int{0, 7, 3, -1}) {
		t.Error("SumInts depends on element order")
	}
}

func TestSquareUL(t *testing.T) {
	cases := []struct {
		x, want ULong
	}{
		{0, 0},
		{1, 1},
		{12, 144},
		{1 << 32, 0},           // 2^64 mod 2^64
		{(1 << 32) + 1, 1<<33 + 1}, // wraps: 2^64 + 2^33 + 1 mod 2^64
	}
	for _, tc := range cases {
		if got := SquareUL(tc.x); got != tc.want {
			t.Errorf("SquareUL(%d) = %d, want %d", tc.x, got, tc.want)
		}
	}
}

func TestPointDistanceSq(t *testing.T) {
	p := Point{X: 3, Y: 4}
	if got := p.DistanceSq(); got != 25.0 {
		t.Errorf("DistanceSq = %v, want 25.0", got)
	}
	if got := (Point{}).DistanceSq(); got != 0 {
		t.Errorf("origin DistanceSq = %v, want 0", got)
	}
}

func TestApply(t *testing.T) {
	if got := Apply(Add, 2, 3); got != 5 {
		t.Errorf("Apply(Add, 2, 3) = %d, want 5", got)
	}
	mul := func(a, b int) int { return a * b }
	if got := Apply(mul, 4, 5); got != 20 {
		t.Errorf("Apply(mul, 4, 5) = %d, want 20", got)
	}
}

func TestSumVariadic(t *testing.T) {
	if got := SumVariadic(1, 2, 3); got != 6 {
		t.Errorf("SumVariadic(1, 2, 3) = %d, want 6", got)
	}
	if got := SumVariadic(); got != 0 {
		t.Errorf("SumVariadic() = %d, want 0", got)
	}
	if got := SumVariadic(-5); got != -5 {
		t.Errorf("SumVariadic(-5) = %d, want -5", got)
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		x    float64
		want int
	}{
		{3.9, 3},
		{-3.9, -3},
		{0.0, 0},
		{100.0, 100},
	}
	for _, tc := range cases {
		if got := truncate(tc.x); got != tc.want {
			t.Errorf("truncate(%v) = %d, want %d", tc.x, got, tc.want)
		}
	}
}
