package cpu

const StackSize = 16

// Stack holds return addresses for 2NNN/00EE.
type Stack struct {
	data [StackSize]uint16
	sp   int
}

func (s *Stack) Push(addr uint16) error {
	if s.Full() {
		return ErrStackOverflow
	}
	s.data[s.sp] = addr
	s.sp++
	return nil
}

func (s *Stack) Pop() (uint16, error) {
	if s.Empty() {
		return 0, ErrStackUnderflow
	}
	s.sp--
	return s.data[s.sp], nil
}

func (s *Stack) Len() int {
	return s.sp
}

func (s *Stack) Empty() bool {
	return s.sp == 0
}

func (s *Stack) Full() bool {
	return s.sp == StackSize
}

func (s *Stack) Reset() {
	s.data = [StackSize]uint16{}
	s.sp = 0
}
