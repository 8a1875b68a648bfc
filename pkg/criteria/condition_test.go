package criteria

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCondition(t *testing.T) {
	tests := []struct {
		input string
		want  Condition
	}{
		{`caller_is("theCaller")`, Condition{Name: "caller_is", Args: []interface{}{"theCaller"}}},
		{`  not  any_caller_is( 'some\'Caller' ) `, Condition{Negate: true, Name: "any_caller_is", Args: []interface{}{"some'Caller"}}},
		{`called_on(2)`, Condition{Name: "called_on", Args: []interface{}{int64(2)}}},
		{`called_on(0x10)`, Condition{Name: "called_on", Args: []interface{}{int64(16)}}},
		{`caller_matches("^main\\.")`, Condition{Name: "caller_matches", Args: []interface{}{`^main\.`}}},
		{`f()`, Condition{Name: "f"}},
		{`f("a", -1)`, Condition{Name: "f", Args: []interface{}{"a", int64(-1)}}},
	}

	for _, tt := range tests {
		got, err := ParseCondition(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}
}

func TestParseCondition_Errors(t *testing.T) {
	inputs := []string{
		``,
		`not`,
		`caller_is`,
		`caller_is("a"`,
		`caller_is("a) `,
		`caller_is('a`,
		`caller_is(a)`,
		`caller_is("a") and caller_is("b")`,
		`called_on(12abc)`,
		`caller_is("a",)`,
	}

	for _, input := range inputs {
		_, err := ParseCondition(input)
		require.Error(t, err, input)
		var pe *ParseError
		assert.True(t, errors.As(err, &pe), input)
	}
}

func TestCondition_String(t *testing.T) {
	c := Condition{Negate: true, Name: "called_on", Args: []interface{}{"q", int64(3)}}
	assert.Equal(t, `not called_on("q", 3)`, c.String())

	parsed, err := ParseCondition(c.String())
	require.NoError(t, err)
	assert.Equal(t, c, parsed)
}

func TestResolve(t *testing.T) {
	cur := newThread(t).Current()

	tests := []struct {
		cond string
		want bool
	}{
		{`caller_is("foo")`, true},
		{`not caller_is("foo")`, false},
		{`not any_caller_is("baz")`, true},
		{`called_on(2)`, true},
		{`called_on("worker")`, true},
		{`not caller_from("libFoo.so")`, false},
	}

	for _, tt := range tests {
		cb, err := Resolve(tt.cond)
		require.NoError(t, err, tt.cond)
		got, err := cb(cur, nil, nil)
		require.NoError(t, err, tt.cond)
		assert.Equal(t, tt.want, got, tt.cond)
	}
}

func TestResolve_Errors(t *testing.T) {
	_, err := Resolve(`nope("x")`)
	assert.True(t, errors.Is(err, ErrUnknownPredicate))

	// predicate errors propagate through negation
	cb, err := Resolve(`not caller_is(1)`)
	require.NoError(t, err)
	_, err = cb(newThread(t).Current(), nil, nil)
	assert.True(t, errors.Is(err, ErrInvalidParam))
}
