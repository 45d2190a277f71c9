package graph

// Scope is a hierarchical lifetime container. Nodes constructed while the
// scope is ambient (inside Run) attach to it; disposing the scope disposes
// its owned nodes in creation order, then its child scopes in creation
// order, then runs registered cleanups. Ownership is exclusive: a node
// belongs to at most one scope at a time.
type Scope struct {
	rs       *ReactiveSystem
	parent   *Scope
	label    string
	nodes    []uint64
	children []*Scope
	cleanups []func()
	disposed bool
}

// NewScope creates a scope. If another scope is currently ambient the new
// one becomes its child and is disposed along with it.
func NewScope(rs *ReactiveSystem) *Scope {
	s := &Scope{rs: rs, parent: rs.currentScope()}
	if s.parent != nil {
		s.parent.children = append(s.parent.children, s)
	}
	return s
}

// EffectScope creates a scope and immediately runs fn inside it, the common
// construction pattern for a subsystem's reactive wiring.
func EffectScope(rs *ReactiveSystem, fn func()) *Scope {
	s := NewScope(rs)
	s.Run(fn)
	return s
}

func (s *Scope) WithLabel(label string) *Scope {
	s.label = label
	return s
}

func (s *Scope) Label() string    { return s.label }
func (s *Scope) IsDisposed() bool { return s.disposed }

// Run makes the scope ambient for the duration of fn, so signals, computeds,
// effects, watchers and child scopes constructed inside attach to it.
func (s *Scope) Run(fn func()) {
	if s.disposed {
		panic(&DisposedAccessError{Label: s.label, Op: "run scope"})
	}
	s.rs.scopeStack = append(s.rs.scopeStack, s)
	defer func() {
		s.rs.scopeStack = s.rs.scopeStack[:len(s.rs.scopeStack)-1]
	}()
	fn()
}

// OnCleanup registers a teardown hook. Hooks run after owned nodes and child
// scopes are disposed, in reverse registration order. Registering on an
// already-disposed scope runs the hook immediately.
func (s *Scope) OnCleanup(fn func()) {
	if s.disposed {
		fn()
		return
	}
	s.cleanups = append(s.cleanups, fn)
}

// Detach releases a node from this scope's ownership without disposing it,
// for nodes whose lifetime is managed elsewhere.
func (s *Scope) Detach(node Node) {
	s.forget(node.ID())
	if n, ok := s.rs.nodes[node.ID()]; ok && n.scope == s {
		n.scope = nil
	}
}

// Dispose tears the scope down. Idempotent, and safe to call from within a
// running effect that the scope owns: the in-progress run completes, but the
// effect is never scheduled again.
func (s *Scope) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	if s.parent != nil {
		for i, c := range s.parent.children {
			if c == s {
				s.parent.children = append(s.parent.children[:i], s.parent.children[i+1:]...)
				break
			}
		}
		s.parent = nil
	}

	nodes := s.nodes
	s.nodes = nil
	for _, id := range nodes {
		if n, ok := s.rs.nodes[id]; ok {
			s.rs.dispose(n)
		}
	}

	children := s.children
	s.children = nil
	for _, child := range children {
		child.Dispose()
	}

	cleanups := s.cleanups
	s.cleanups = nil
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}

func (s *Scope) adopt(n *node) {
	s.nodes = append(s.nodes, n.id)
	n.scope = s
}

func (s *Scope) forget(id uint64) {
	for i, v := range s.nodes {
		if v == id {
			s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
			return
		}
	}
}
