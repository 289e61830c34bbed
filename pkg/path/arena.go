package path

type lazy[T any] struct {
	v  T
	ok bool
}

func (l *lazy[T]) get(compute func() T) T {
	if !l.ok {
		l.v = compute()
		l.ok = true
	}
	return l.v
}

// Arena recycles the nodes of one sub-path. A worker keeps one arena for eye
// paths and one for light paths and resets each before tracing a new walk.
// A nil *Arena allocates from the heap.
type Arena struct {
	nodes []*Node
	used  int
	gen   uint32
}

// NewArena creates an arena with room for capacity nodes
func NewArena(capacity int) *Arena {
	a := &Arena{nodes: make([]*Node, 0, capacity)}
	for i := 0; i < capacity; i++ {
		a.nodes = append(a.nodes, new(Node))
	}
	return a
}

// Reset releases every node. Nodes handed out before Reset must not be used afterwards.
func (a *Arena) Reset() {
	a.gen++
	a.used = 0
}

// Len returns the number of nodes in use
func (a *Arena) Len() int {
	return a.used
}

// Generation increments on every Reset
func (a *Arena) Generation() uint32 {
	return a.gen
}

func (a *Arena) alloc() *Node {
	if a == nil {
		return new(Node)
	}
	if a.used == len(a.nodes) {
		a.nodes = append(a.nodes, new(Node))
	}
	n := a.nodes[a.used]
	a.used++
	*n = Node{arena: a, gen: a.gen}
	return n
}
