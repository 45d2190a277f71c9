package graph_test

import (
	"testing"

	"github.com/delaneyj/gravity/graph"
	"github.com/stretchr/testify/assert"
)

// disposing a scope disposes everything constructed inside it
func TestScopeDisposesOwnedNodes(t *testing.T) {
	rs := graph.CreateReactiveSystem(func(from graph.Node, err error) {
		assert.FailNow(t, err.Error())
	})
	a := graph.Signal(rs, 0)

	runs := 0
	var inner *graph.WriteableSignal[int]
	scope := graph.EffectScope(rs, func() {
		inner = graph.Signal(rs, 1)
		graph.Effect(rs, func() error {
			runs++
			a.Value()
			return nil
		})
	})
	assert.Equal(t, 1, runs)

	a.SetValue(1)
	assert.Equal(t, 2, runs)

	scope.Dispose()
	assert.True(t, scope.IsDisposed())
	assert.True(t, inner.IsDisposed())

	a.SetValue(2)
	assert.Equal(t, 2, runs)
}

// nodes created outside Run do not attach to the scope
func TestScopeOnlyOwnsNodesCreatedInRun(t *testing.T) {
	rs := graph.CreateReactiveSystem(func(from graph.Node, err error) {
		assert.FailNow(t, err.Error())
	})

	scope := graph.NewScope(rs)
	outside := graph.Signal(rs, 1)
	scope.Run(func() {})

	scope.Dispose()
	assert.False(t, outside.IsDisposed())
	assert.Equal(t, 1, outside.Value())
}

// child scopes cascade
func TestScopeCascade(t *testing.T) {
	rs := graph.CreateReactiveSystem(func(from graph.Node, err error) {
		assert.FailNow(t, err.Error())
	})

	var childSig *graph.WriteableSignal[int]
	var child *graph.Scope
	parent := graph.EffectScope(rs, func() {
		child = graph.EffectScope(rs, func() {
			childSig = graph.Signal(rs, 1)
		})
	})

	parent.Dispose()
	assert.True(t, child.IsDisposed())
	assert.True(t, childSig.IsDisposed())
}

// cleanups run last, in reverse registration order
func TestScopeCleanupOrder(t *testing.T) {
	rs := graph.CreateReactiveSystem(func(from graph.Node, err error) {
		assert.FailNow(t, err.Error())
	})

	order := []string{}
	scope := graph.NewScope(rs)
	scope.Run(func() {
		sig := graph.Signal(rs, 1)
		scope.OnCleanup(func() {
			order = append(order, "first cleanup")
			// owned nodes are already gone by now
			assert.True(t, sig.IsDisposed())
		})
		scope.OnCleanup(func() {
			order = append(order, "second cleanup")
		})
	})

	scope.Dispose()
	assert.Equal(t, []string{"second cleanup", "first cleanup"}, order)
}

// registering a cleanup on a disposed scope runs it immediately
func TestScopeCleanupAfterDispose(t *testing.T) {
	rs := graph.CreateReactiveSystem(func(from graph.Node, err error) {
		assert.FailNow(t, err.Error())
	})

	scope := graph.NewScope(rs)
	scope.Dispose()

	ran := false
	scope.OnCleanup(func() { ran = true })
	assert.True(t, ran)
}

// a detached node survives its former scope
func TestScopeDetach(t *testing.T) {
	rs := graph.CreateReactiveSystem(func(from graph.Node, err error) {
		assert.FailNow(t, err.Error())
	})

	var kept *graph.WriteableSignal[int]
	scope := graph.EffectScope(rs, func() {
		kept = graph.Signal(rs, 1)
	})
	scope.Detach(kept)
	scope.Dispose()

	assert.False(t, kept.IsDisposed())
	kept.SetValue(2)
	assert.Equal(t, 2, kept.Value())
}

// running a disposed scope panics
func TestScopeRunAfterDisposePanics(t *testing.T) {
	rs := graph.CreateReactiveSystem(func(from graph.Node, err error) {
		assert.FailNow(t, err.Error())
	})

	scope := graph.NewScope(rs).WithLabel("dead")
	scope.Dispose()

	func() {
		defer func() {
			r := recover()
			derr, ok := r.(*graph.DisposedAccessError)
			assert.True(t, ok, "expected *DisposedAccessError, got %T", r)
			assert.Equal(t, "dead", derr.Label)
		}()
		scope.Run(func() {})
	}()
}

// a scope may be torn down from inside an effect it owns
func TestScopeDisposeFromOwnedEffect(t *testing.T) {
	rs := graph.CreateReactiveSystem(func(from graph.Node, err error) {
		assert.FailNow(t, err.Error())
	})
	a := graph.Signal(rs, 0)

	runs := 0
	var scope *graph.Scope
	scope = graph.EffectScope(rs, func() {
		graph.Effect(rs, func() error {
			runs++
			if a.Value() > 0 {
				scope.Dispose()
			}
			return nil
		})
	})
	assert.Equal(t, 1, runs)

	a.SetValue(1)
	assert.Equal(t, 2, runs)
	assert.True(t, scope.IsDisposed())

	a.SetValue(2)
	assert.Equal(t, 2, runs)
}
