package regexcache

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCompile_SameObject(t *testing.T) {
	calls := 0
	c := New(WithCompiler(func(p string) (*regexp.Regexp, error) {
		calls++
		return regexp.Compile(p)
	}))

	re1, err := c.GetOrCompile(`^main\.`)
	require.NoError(t, err)
	re2, err := c.GetOrCompile(`^main\.`)
	require.NoError(t, err)

	assert.True(t, re1 == re2, "second lookup must return the cached regex")
	assert.Equal(t, 1, calls)

	st := c.Stats()
	assert.Equal(t, uint64(1), st.Hits)
	assert.Equal(t, uint64(1), st.Misses)
	assert.Equal(t, 1, st.Size)
}

func TestGetOrCompile_DistinctPatterns(t *testing.T) {
	c := New()

	a, err := c.GetOrCompile("foo")
	require.NoError(t, err)
	b, err := c.GetOrCompile("Foo")
	require.NoError(t, err)

	assert.False(t, a == b)
	assert.Equal(t, 2, c.Stats().Size)
}

func TestGetOrCompile_BadPattern(t *testing.T) {
	calls := 0
	c := New(WithCompiler(func(p string) (*regexp.Regexp, error) {
		calls++
		return regexp.Compile(p)
	}))

	for i := 0; i < 2; i++ {
		re, err := c.GetOrCompile("foo(")
		assert.Nil(t, re)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrBadPattern))
	}
	// errors are not cached, so the compiler runs every time
	assert.Equal(t, 2, calls)
	assert.Equal(t, 0, c.Stats().Size)
}

func TestDefault(t *testing.T) {
	re1, err := GetOrCompile("regexcache-default")
	require.NoError(t, err)
	re2, err := Default().GetOrCompile("regexcache-default")
	require.NoError(t, err)
	assert.True(t, re1 == re2)
}
