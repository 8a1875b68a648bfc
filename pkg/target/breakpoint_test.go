package target

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hitzhangjie/bpcond/pkg/criteria"
	"github.com/hitzhangjie/bpcond/pkg/frame"
)

func stopAt(t *testing.T, names ...string) frame.Frame {
	desc := frame.StackDesc{Index: 1, Name: "main"}
	for _, n := range names {
		desc.Frames = append(desc.Frames, frame.FrameDesc{Name: n, Module: "/tmp/app"})
	}
	th, err := frame.NewStack(desc)
	require.NoError(t, err)
	return th.Current()
}

func TestBreakpointTable_Stop(t *testing.T) {
	table := NewBreakpointTable(nil)

	always, err := table.Add("write", "")
	require.NoError(t, err)
	fromFoo, err := table.Add("write", `caller_is("foo")`)
	require.NoError(t, err)
	notFoo, err := table.Add("write", `not caller_is("foo")`)
	require.NoError(t, err)
	_, err = table.Add("read", `caller_is("foo")`)
	require.NoError(t, err)

	results := table.Stop(stopAt(t, "write", "foo", "main"), "write")
	require.Len(t, results, 3)

	got := map[uint64]bool{}
	for _, r := range results {
		require.NoError(t, r.Err)
		got[r.Breakpoint.ID] = r.Stop
	}
	assert.Equal(t, map[uint64]bool{always.ID: true, fromFoo.ID: true, notFoo.ID: false}, got)
	assert.True(t, ShouldStop(results))

	assert.Equal(t, uint64(1), fromFoo.HitCount.Load())
}

func TestBreakpointTable_ConditionError(t *testing.T) {
	table := NewBreakpointTable(nil)
	_, err := table.Add("write", `caller_matches("foo(")`)
	require.NoError(t, err)

	results := table.Stop(stopAt(t, "write", "foo"), "write")
	require.Len(t, results, 1)
	assert.Error(t, results[0].Err)
	assert.False(t, ShouldStop(results))
}

func TestBreakpointTable_AddErrors(t *testing.T) {
	table := NewBreakpointTable(criteria.NewRegistry())

	_, err := table.Add("", "")
	assert.Equal(t, ErrEmptyLocation, err)

	// an empty registry knows no predicate
	_, err = table.Add("write", `caller_is("foo")`)
	assert.True(t, errors.Is(err, criteria.ErrUnknownPredicate))

	_, err = table.Add("write", `caller_is(`)
	assert.Error(t, err)
	assert.Empty(t, table.List())
}

func TestBreakpointTable_ClearAndDisable(t *testing.T) {
	table := NewBreakpointTable(nil)
	a, _ := table.Add("a", "")
	b, _ := table.Add("b", "")
	c, _ := table.Add("b", "")

	list := table.List()
	require.Len(t, list, 3)
	assert.Equal(t, []uint64{a.ID, b.ID, c.ID}, []uint64{list[0].ID, list[1].ID, list[2].ID})

	require.NoError(t, table.SetEnabled(b.ID, false))
	results := table.Stop(stopAt(t, "b"), "b")
	require.Len(t, results, 1)
	assert.Equal(t, c.ID, results[0].Breakpoint.ID)
	assert.Equal(t, uint64(0), b.HitCount.Load())

	_, err := table.Clear(a.ID)
	require.NoError(t, err)
	_, err = table.Clear(a.ID)
	assert.Equal(t, ErrBreakpointNotExisted, err)
	assert.Equal(t, ErrBreakpointNotExisted, table.SetEnabled(a.ID, true))

	assert.Equal(t, 2, table.ClearAll())
	assert.Empty(t, table.List())
}

func TestBreakpointTable_ConcurrentStopAndDisable(t *testing.T) {
	table := NewBreakpointTable(nil)
	bp, err := table.Add("write", `caller_is("foo")`)
	require.NoError(t, err)
	f := stopAt(t, "write", "foo")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			assert.NoError(t, table.SetEnabled(bp.ID, i%2 == 0))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			table.Stop(f, "write")
		}
	}()
	wg.Wait()

	require.NoError(t, table.SetEnabled(bp.ID, true))
	assert.True(t, bp.Enabled.Load())
	assert.True(t, bp.HitCount.Load() <= 100)
	assert.True(t, ShouldStop(table.Stop(f, "write")))
}
