// Package ndarray provides rank 1 to 3 arrays over a flat buffer, a
// bit-packed rank-3 boolean array, and the ND binary record format used to
// persist both.
//
// Axis 0 is the fastest varying: element (c0, c1, c2) of a tightly packed
// rank-3 array with bound (b0, b1, b2) lives at c0 + c1*b0 + c2*b0*b1.
// Arrays own their buffer; View and ViewMut borrow windows of it.
//
// Misuse of the array API (out-of-bounds coordinates, mismatched bounds,
// operations on strided windows that need packed ones) panics with an
// error wrapping ErrContract. Decoding never panics on bad input; it
// returns a *DecodeError.
package ndarray
