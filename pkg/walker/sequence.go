package walker

// NumberSequence is a bidirectional cursor over a series of non-decreasing numbers.
type NumberSequence interface {
	// Next advances the cursor and returns the new value.
	Next() int64
	// Prev moves the cursor back (never before the first value) and returns the new value.
	Prev() int64
	// Peek returns the current value.
	Peek() int64
	// Reset moves the cursor to the first value.
	Reset()
}

// FibonacciSequence yields start, max(start,1), then the sum of the previous two values.
type FibonacciSequence struct {
	start int64
	a, b  int64
	index int
}

func NewFibonacciSequence(start int64) *FibonacciSequence {
	s := &FibonacciSequence{start: start}
	s.Reset()
	return s
}

func (s *FibonacciSequence) Next() int64 {
	s.a, s.b = s.b, s.a+s.b
	s.index++
	return s.a
}

func (s *FibonacciSequence) Prev() int64 {
	if s.index > 0 {
		s.a, s.b = s.b-s.a, s.a
		s.index--
	}
	return s.a
}

func (s *FibonacciSequence) Peek() int64 {
	return s.a
}

func (s *FibonacciSequence) Reset() {
	s.a = s.start
	s.b = s.start
	if s.b < 1 {
		s.b = 1
	}
	s.index = 0
}

// LinearSequence yields start, start+step, start+2*step...
type LinearSequence struct {
	start, step int64
	index       int64
}

func NewLinearSequence(start, step int64) *LinearSequence {
	return &LinearSequence{start: start, step: step}
}

func (s *LinearSequence) Next() int64 {
	s.index++
	return s.Peek()
}

func (s *LinearSequence) Prev() int64 {
	if s.index > 0 {
		s.index--
	}
	return s.Peek()
}

func (s *LinearSequence) Peek() int64 {
	return s.start + s.index*s.step
}

func (s *LinearSequence) Reset() {
	s.index = 0
}

// ConstantSequence always yields the same value.
type ConstantSequence int64

func (s ConstantSequence) Next() int64 { return int64(s) }
func (s ConstantSequence) Prev() int64 { return int64(s) }
func (s ConstantSequence) Peek() int64 { return int64(s) }
func (s ConstantSequence) Reset()      {}
