package ndarray

// View is a shared, read-only window over an array's buffer. The stride is
// the owner's; a window narrower than its owner is therefore not tightly
// packed. A View must not outlive the Array it was taken from.
type View[T any, S Shape[S, St], St comparable] struct {
	data   []T
	bound  S
	stride St
}

// ViewMut is the exclusive, writable counterpart of View. No other View or
// ViewMut may overlap it while it is in use.
type ViewMut[T any, S Shape[S, St], St comparable] struct {
	data   []T
	bound  S
	stride St
}

type (
	View1[T any] = View[T, Shape1, Stride1]
	View2[T any] = View[T, Shape2, Stride2]
	View3[T any] = View[T, Shape3, Stride3]

	ViewMut1[T any] = ViewMut[T, Shape1, Stride1]
	ViewMut2[T any] = ViewMut[T, Shape2, Stride2]
	ViewMut3[T any] = ViewMut[T, Shape3, Stride3]
)

func (v View[T, S, St]) Bound() S   { return v.bound }
func (v View[T, S, St]) Stride() St { return v.stride }

// Len is the number of logical elements, independent of the stride.
func (v View[T, S, St]) Len() int { return v.bound.Len() }

// Data returns the buffer window the view spans, padding included.
func (v View[T, S, St]) Data() []T { return v.data }

func (v View[T, S, St]) IsPacked() bool { return v.stride == v.bound.LeastStride() }

// At returns the element at coordinate c.
func (v View[T, S, St]) At(c S) T {
	if !c.inside(v.bound) {
		violate(ErrOutOfBounds, "coordinate %v of bound %v", c, v.bound)
	}
	return v.data[c.Offset(v.stride)]
}

// View narrows the view to [lo, hi) on every axis.
func (v View[T, S, St]) View(lo, hi S) View[T, S, St] {
	data, bound := window(v.data, v.bound, v.stride, lo, hi)
	return View[T, S, St]{data: data, bound: bound, stride: v.stride}
}

func (v ViewMut[T, S, St]) Bound() S   { return v.bound }
func (v ViewMut[T, S, St]) Stride() St { return v.stride }
func (v ViewMut[T, S, St]) Len() int   { return v.bound.Len() }
func (v ViewMut[T, S, St]) Data() []T  { return v.data }

func (v ViewMut[T, S, St]) IsPacked() bool { return v.stride == v.bound.LeastStride() }

// AsView reborrows the window read-only. The ViewMut must not be written
// while the returned View is in use.
func (v ViewMut[T, S, St]) AsView() View[T, S, St] {
	return View[T, S, St]{data: v.data, bound: v.bound, stride: v.stride}
}

func (v ViewMut[T, S, St]) At(c S) T {
	if !c.inside(v.bound) {
		violate(ErrOutOfBounds, "coordinate %v of bound %v", c, v.bound)
	}
	return v.data[c.Offset(v.stride)]
}

// Set stores x at coordinate c.
func (v ViewMut[T, S, St]) Set(c S, x T) {
	if !c.inside(v.bound) {
		violate(ErrOutOfBounds, "coordinate %v of bound %v", c, v.bound)
	}
	v.data[c.Offset(v.stride)] = x
}

// ViewMut narrows the view to [lo, hi) on every axis. Writes through the
// result land in the parent's buffer at lo.Offset(stride) onward.
func (v ViewMut[T, S, St]) ViewMut(lo, hi S) ViewMut[T, S, St] {
	data, bound := window(v.data, v.bound, v.stride, lo, hi)
	return ViewMut[T, S, St]{data: data, bound: bound, stride: v.stride}
}

// CopyFrom copies src element-wise into v. The bounds must match and both
// sides must be tightly packed with the same stride; strided copies are not
// implemented and panic.
func (v ViewMut[T, S, St]) CopyFrom(src View[T, S, St]) {
	if v.bound != src.bound {
		violate(ErrShapeMismatch, "copy bound %v into bound %v", src.bound, v.bound)
	}
	if !v.IsPacked() || v.stride != src.stride {
		violate(ErrNotPacked, "strided copy with bound %v", v.bound)
	}
	copy(v.data, src.data)
}

// Fill sets every element inside the bound to x. Padding between rows of a
// strided window is left untouched.
func (v ViewMut[T, S, St]) Fill(x T) {
	if v.IsPacked() {
		for i := range v.data[:v.bound.Len()] {
			v.data[i] = x
		}
		return
	}
	for c := range v.bound.All() {
		v.data[c.Offset(v.stride)] = x
	}
}
