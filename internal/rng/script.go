package rng

// Script is a Source that replays a fixed sequence of draws. It exists for
// tests that need to steer probabilistic branches precisely.
//
// Intn and Range consume from Ints; Float64 consumes from Floats. When a
// sequence runs out, Intn and Range return their minimum value and Float64
// returns 1.0 (which never satisfies a `< p` probability check), so
// exhausted scripts fail closed rather than panicking mid-test.
type Script struct {
	Ints   []int
	Floats []float64
}

var _ Source = (*Script)(nil)

func (s *Script) Intn(n int) int {
	v, ok := s.nextInt()
	if !ok {
		return 0
	}
	if v < 0 || v >= n {
		v = ((v % n) + n) % n
	}
	return v
}

func (s *Script) Float64() float64 {
	if len(s.Floats) == 0 {
		return 1.0
	}
	v := s.Floats[0]
	s.Floats = s.Floats[1:]
	return v
}

func (s *Script) Range(min, max int) int {
	v, ok := s.nextInt()
	if !ok {
		return min
	}
	if v < min || v > max {
		span := max - min + 1
		v = min + (((v-min)%span)+span)%span
	}
	return v
}

func (s *Script) nextInt() (int, bool) {
	if len(s.Ints) == 0 {
		return 0, false
	}
	v := s.Ints[0]
	s.Ints = s.Ints[1:]
	return v, true
}
