package calc

// stack is an array-backed LIFO.
type stack[T any] []T

func (s *stack[T]) push(v T) {
	*s = append(*s, v)
}

// pop removes the top from the stack and returns it. Panics if the stack is
// empty.
func (s *stack[T]) pop() T {
	v := (*s)[len(*s)-1]
	*s = (*s)[:len(*s)-1]
	return v
}

// top is a shortcut to get the top element of the stack.
func (s stack[T]) top() T {
	return s[len(s)-1]
}

func (s stack[T]) empty() bool {
	return len(s) == 0
}
