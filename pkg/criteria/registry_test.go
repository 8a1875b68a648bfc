package criteria

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hitzhangjie/bpcond/pkg/frame"
)

func TestDefault_HasCatalog(t *testing.T) {
	want := []string{
		AnyCallerContains, AnyCallerFrom, AnyCallerIs, AnyCallerMatches,
		CalledOn, CallerContains, CallerFrom, CallerIs, CallerMatches,
	}
	assert.Equal(t, want, Default.Names())
}

func TestRegister_LastWins(t *testing.T) {
	r := NewRegistry()

	r.Register("always", "", func(frame.Frame, ...interface{}) (bool, error) { return false, nil })
	first, _ := r.Entry("always")
	r.Register("always", "always stop", func(frame.Frame, ...interface{}) (bool, error) { return true, nil })
	second, _ := r.Entry("always")

	assert.Equal(t, 1, r.Len())
	assert.True(t, second.Seq > first.Seq)
	assert.Equal(t, "always stop", second.Usage)

	factory, ok := r.Lookup("always")
	require.True(t, ok)
	got, err := factory()(nil, nil, nil)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestFactory_IndependentClosures(t *testing.T) {
	r := NewRegistry()
	Setup(r)
	before, _ := r.Entry(CallerIs)

	factory, _ := r.Lookup(CallerIs)
	isFoo := factory("foo")
	isBar := factory("bar")

	cur := newThread(t).Current()
	ok, err := isFoo(cur, "loc", "extra")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = isBar(cur, nil, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	// binding parameters doesn't touch the registry
	after, _ := r.Entry(CallerIs)
	assert.Equal(t, before.Seq, after.Seq)
	assert.Equal(t, 9, r.Len())
}

func TestBind_CopiesArgs(t *testing.T) {
	var seen []interface{}
	factory := Bind(func(_ frame.Frame, args ...interface{}) (bool, error) {
		seen = args
		return true, nil
	})

	args := []interface{}{"a"}
	cb := factory(args...)
	args[0] = "b"

	_, err := cb(nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"a"}, seen)
}

func TestUnregisterAndReset(t *testing.T) {
	r := NewRegistry()
	Setup(r)

	assert.True(t, r.Unregister(CalledOn))
	assert.False(t, r.Unregister(CalledOn))
	_, ok := r.Lookup(CalledOn)
	assert.False(t, ok)

	r.Reset()
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.Entries())

	Setup(r)
	assert.Len(t, r.Entries(), 9)
}

func TestTeardownAndSetup_Default(t *testing.T) {
	t.Cleanup(func() {
		Teardown()
		Setup(Default)
	})

	Teardown()
	assert.Equal(t, 0, Default.Len())
	_, err := Resolve(`caller_is("foo")`)
	assert.True(t, errors.Is(err, ErrUnknownPredicate))

	Setup(Default)
	assert.Len(t, Default.Names(), 9)

	cb, err := Resolve(`caller_is("foo")`)
	require.NoError(t, err)
	ok, err := cb(newThread(t).Current(), nil, nil)
	require.NoError(t, err)
	assert.True(t, ok)
}
