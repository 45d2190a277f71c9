package graph_test

import (
	"errors"
	"testing"

	"github.com/delaneyj/gravity/graph"
	"github.com/stretchr/testify/assert"
)

// should clear subscriptions when untracked by all subscribers
func TestEffectClearSubsWhenUntracked(t *testing.T) {
	bRunTimes := 0

	rs := graph.CreateReactiveSystem(func(from graph.Node, err error) {
		assert.FailNow(t, err.Error())
	})
	a := graph.Signal(rs, 1)
	b := graph.Computed(rs, func(oldValue int) int {
		bRunTimes++
		return a.Value() * 2
	})
	e := graph.Effect(rs, func() error {
		b.Value()
		return nil
	})

	assert.Equal(t, 1, bRunTimes)
	a.SetValue(2)
	assert.Equal(t, 2, bRunTimes)
	e.Dispose()
	a.SetValue(3)
	assert.Equal(t, 2, bRunTimes)
}

// batched writes produce one run with the final values
func TestEffectBatchRunsOnce(t *testing.T) {
	rs := graph.CreateReactiveSystem(func(from graph.Node, err error) {
		assert.FailNow(t, err.Error())
	})
	a := graph.Signal(rs, 1)
	b := graph.Signal(rs, 10)

	runs := 0
	sum := 0
	graph.Effect(rs, func() error {
		runs++
		sum = a.Value() + b.Value()
		return nil
	})
	assert.Equal(t, 1, runs)
	assert.Equal(t, 11, sum)

	rs.StartBatch()
	a.SetValue(2)
	a.SetValue(3)
	b.SetValue(20)
	assert.Equal(t, 1, runs)
	rs.EndBatch()

	assert.Equal(t, 2, runs)
	assert.Equal(t, 23, sum)
}

// the Batch helper is StartBatch/EndBatch with defer
func TestBatchHelper(t *testing.T) {
	rs := graph.CreateReactiveSystem(func(from graph.Node, err error) {
		assert.FailNow(t, err.Error())
	})
	a := graph.Signal(rs, 0)

	runs := 0
	graph.Effect(rs, func() error {
		runs++
		a.Value()
		return nil
	})
	runs = 0

	rs.Batch(func() {
		a.SetValue(1)
		a.SetValue(2)
	})
	assert.Equal(t, 1, runs)
	assert.Equal(t, 2, a.Peek())
}

// nested batches flush only when the outermost one ends
func TestNestedBatches(t *testing.T) {
	rs := graph.CreateReactiveSystem(func(from graph.Node, err error) {
		assert.FailNow(t, err.Error())
	})
	a := graph.Signal(rs, 0)

	runs := 0
	graph.Effect(rs, func() error {
		runs++
		a.Value()
		return nil
	})
	runs = 0

	rs.Batch(func() {
		a.SetValue(1)
		rs.Batch(func() {
			a.SetValue(2)
		})
		assert.Equal(t, 0, runs)
	})
	assert.Equal(t, 1, runs)
}

// a write from inside a running effect lands in the next flush pass
func TestEffectReentrantWrite(t *testing.T) {
	rs := graph.CreateReactiveSystem(func(from graph.Node, err error) {
		assert.FailNow(t, err.Error())
	})
	a := graph.Signal(rs, 0)
	b := graph.Signal(rs, 0)

	order := []string{}
	graph.Effect(rs, func() error {
		order = append(order, "first")
		b.SetValue(a.Value() * 10)
		return nil
	})
	graph.Effect(rs, func() error {
		order = append(order, "second")
		b.Value()
		return nil
	})
	order = order[:0]

	a.SetValue(1)
	assert.Equal(t, []string{"first", "second"}, order)
	assert.Equal(t, 10, b.Peek())
}

// effects fire in subscription order within a pass
func TestEffectRunOrder(t *testing.T) {
	rs := graph.CreateReactiveSystem(func(from graph.Node, err error) {
		assert.FailNow(t, err.Error())
	})
	a := graph.Signal(rs, 0)

	order := []string{}
	graph.Effect(rs, func() error {
		a.Value()
		order = append(order, "first")
		return nil
	})
	graph.Effect(rs, func() error {
		a.Value()
		order = append(order, "second")
		return nil
	})
	order = order[:0]

	a.SetValue(1)
	assert.Equal(t, []string{"first", "second"}, order)
}

// an equality-deduped computed upstream suppresses the run entirely
func TestEffectSkipsWhenComputedUnchanged(t *testing.T) {
	rs := graph.CreateReactiveSystem(func(from graph.Node, err error) {
		assert.FailNow(t, err.Error())
	})
	a := graph.Signal(rs, 1)
	isPositive := graph.Computed(rs, func(oldValue bool) bool {
		return a.Value() > 0
	})

	runs := 0
	graph.Effect(rs, func() error {
		runs++
		isPositive.Value()
		return nil
	})
	assert.Equal(t, 1, runs)

	a.SetValue(2)
	assert.Equal(t, 1, runs)

	a.SetValue(-1)
	assert.Equal(t, 2, runs)
}

// EffectWhen gates the re-run without touching the dependency set
func TestEffectWhen(t *testing.T) {
	rs := graph.CreateReactiveSystem(func(from graph.Node, err error) {
		assert.FailNow(t, err.Error())
	})
	a := graph.Signal(rs, 0)
	enabled := graph.Signal(rs, true)

	runs := 0
	graph.Effect(rs, func() error {
		runs++
		a.Value()
		return nil
	}, graph.EffectWhen(func() bool {
		return enabled.Peek()
	}))
	assert.Equal(t, 1, runs)

	enabled.SetValue(false)
	a.SetValue(1)
	assert.Equal(t, 1, runs)

	enabled.SetValue(true)
	a.SetValue(2)
	assert.Equal(t, 2, runs)
}

// a returned error reaches the handler and the flush keeps going
func TestEffectErrorIsolation(t *testing.T) {
	var gotFrom graph.Node
	var gotErr error
	rs := graph.CreateReactiveSystem(func(from graph.Node, err error) {
		gotFrom = from
		gotErr = err
	})
	a := graph.Signal(rs, 0)

	boom := errors.New("boom")
	graph.Effect(rs, func() error {
		a.Value()
		if a.Peek() > 0 {
			return boom
		}
		return nil
	}, graph.EffectLabel("exploder"))

	healthyRuns := 0
	graph.Effect(rs, func() error {
		healthyRuns++
		a.Value()
		return nil
	})
	healthyRuns = 0

	a.SetValue(1)
	assert.Equal(t, boom, gotErr)
	assert.Equal(t, "exploder", gotFrom.Label())
	assert.Equal(t, 1, healthyRuns)
}

// a panicking effect body is routed to the handler during a flush
func TestEffectPanicRouted(t *testing.T) {
	var gotErr error
	rs := graph.CreateReactiveSystem(func(from graph.Node, err error) {
		gotErr = err
	})
	a := graph.Signal(rs, 0)

	graph.Effect(rs, func() error {
		if a.Value() > 0 {
			panic(errors.New("kaboom"))
		}
		return nil
	})

	a.SetValue(1)
	assert.EqualError(t, gotErr, "kaboom")
}

// a disposed effect never runs again, even while queued
func TestEffectDisposeWhileQueued(t *testing.T) {
	rs := graph.CreateReactiveSystem(func(from graph.Node, err error) {
		assert.FailNow(t, err.Error())
	})
	a := graph.Signal(rs, 0)

	runs := 0
	var victim *graph.EffectRunner
	graph.Effect(rs, func() error {
		if a.Value() > 0 && victim != nil {
			victim.Dispose()
		}
		return nil
	})
	victim = graph.Effect(rs, func() error {
		runs++
		a.Value()
		return nil
	})
	runs = 0

	a.SetValue(1)
	assert.Equal(t, 0, runs)
	assert.True(t, victim.IsDisposed())
}
