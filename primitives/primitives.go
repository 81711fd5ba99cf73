// Package primitives provides small, self-contained arithmetic, string,
// buffer, and geometry routines. Every operation is a stateless leaf: no
// shared state, no goroutines, no I/O. Callers own all inputs.
//
// Operations whose preconditions cannot be expressed through the type system
// (a missing NUL terminator, a copy length exceeding a buffer) fail fast with
// a descriptive panic rather than silently corrupting memory.
package primitives

import "fmt"

// ULong is an unsigned integer wide enough to hold a C "unsigned long" on
// the platforms this project targets. Multiplication wraps modulo 2^64.
type ULong uint64

// Point is a 2D point with float64 coordinates. The zero value is the origin.
type Point struct {
	X float64
	Y float64
}

// DistanceSq returns the squared distance from the origin, x² + y².
func (p Point) DistanceSq() float64 {
	return p.X*p.X + p.Y*p.Y
}

// Add returns a + b. Overflow wraps per two's-complement semantics.
func Add(a, b int) int {
	return a + b
}

// Greet accepts a name and does nothing with it. It never mutates or retains
// its argument.
func Greet(name string) {
	_ = name
}

// StrLen returns the number of bytes in s before the first NUL byte,
// mirroring C strlen over a NUL-terminated buffer. The empty prefix is valid:
// a buffer starting with NUL has length 0.
//
// Panics if s contains no NUL terminator.
func StrLen(s []byte) int {
	for i, b := range s {
		if b == 0 {
			return i
		}
	}
	panic(fmt.Sprintf("primitives: StrLen on unterminated buffer of %d bytes", len(s)))
}

// CopyBytes copies exactly n bytes from src to dst, byte by byte in forward
// order, and returns dst for chaining. n = 0 is a no-op. If the ranges
// overlap with dst ahead of src the forward copy reads already-written bytes;
// callers needing overlap safety should not use this.
//
// Panics if n is negative or exceeds the length of either slice.
func CopyBytes(dst, src []byte, n int) []byte {
	if n < 0 {
		panic(fmt.Sprintf("primitives: CopyBytes with negative length %d", n))
	}
	if n > len(dst) || n > len(src) {
		panic(fmt.Sprintf("primitives: CopyBytes length %d exceeds dst %d or src %d", n, len(dst), len(src)))
	}
	for i := 0; i < n; i++ {
		dst[i] = src[i]
	}
	return dst
}

// SumInts returns the sum of all elements. A nil or empty slice sums to 0.
// The result is independent of element order.
func SumInts(xs []int) int {
	sum := 0
	for _, x := range xs {
		sum += x
	}
	return sum
}

// SquareUL returns x*x, wrapping modulo 2^64 on overflow.
func SquareUL(x ULong) ULong {
	return x * x
}

// Apply invokes fn with a and b and returns the result. fn must be non-nil;
// calling a nil function panics with the usual runtime diagnostic.
func Apply(fn func(int, int) int, a, b int) int {
	return fn(a, b)
}

// SumVariadic sums its arguments. With no arguments it returns 0. The
// argument list carries its own length, so there is no count to mismatch.
func SumVariadic(xs ...int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}

// truncate converts a float64 to int, truncating toward zero.
func truncate(x float64) int {
	return int(x)
}
