package criteria

import (
	"strings"

	"golang.org/x/exp/constraints"

	"github.com/hitzhangjie/bpcond/pkg/criteria/regexcache"
	"github.com/hitzhangjie/bpcond/pkg/frame"
)

// Names of the builtin predicates.
const (
	CallerIs          = "caller_is"
	AnyCallerIs       = "any_caller_is"
	CallerContains    = "caller_contains"
	AnyCallerContains = "any_caller_contains"
	CallerMatches     = "caller_matches"
	AnyCallerMatches  = "any_caller_matches"
	CallerFrom        = "caller_from"
	AnyCallerFrom     = "any_caller_from"
	CalledOn          = "called_on"
)

type builtin struct {
	name  string
	usage string
	pred  Predicate
}

// builtins is the fixed catalog registered into Default. All comparisons are
// case sensitive; a regex may opt in to case folding with (?i).
var builtins = []builtin{
	{CallerIs, `caller_is("symbol"): the immediate caller is named symbol`, callerIs},
	{AnyCallerIs, `any_caller_is("symbol"): some caller is named symbol`, anyCallerIs},
	{CallerContains, `caller_contains("text"): the immediate caller's name contains text`, callerContains},
	{AnyCallerContains, `any_caller_contains("text"): some caller's name contains text`, anyCallerContains},
	{CallerMatches, `caller_matches("regex"): the immediate caller's name matches regex`, callerMatches},
	{AnyCallerMatches, `any_caller_matches("regex"): some caller's name matches regex`, anyCallerMatches},
	{CallerFrom, `caller_from("libFoo.so"): the immediate caller is in module libFoo.so`, callerFrom},
	{AnyCallerFrom, `any_caller_from("libFoo.so"): some caller is in module libFoo.so`, anyCallerFrom},
	{CalledOn, `called_on(2) | called_on("name"): stopped on thread index 2, or thread/queue named name`, calledOn},
}

// stringParam extracts the single string parameter of predicate name.
func stringParam(name string, args []interface{}) (string, error) {
	if len(args) != 1 {
		return "", invalidParam(name, "want 1 parameter, got %d", len(args))
	}
	s, ok := args[0].(string)
	if !ok {
		return "", invalidParam(name, "want string, got %T", args[0])
	}
	return s, nil
}

// caller applies check to f's parent, false if there is no parent.
func caller(f frame.Frame, check func(frame.Frame) bool) bool {
	p := frame.Caller(f)
	if p == nil {
		return false
	}
	return check(p)
}

// anyCaller applies check to every caller of f until one passes.
func anyCaller(f frame.Frame, check func(frame.Frame) bool) bool {
	for _, c := range frame.Callers(f) {
		if frame.IsNil(c) {
			continue
		}
		if check(c) {
			return true
		}
	}
	return false
}

func nameIs(name string) func(frame.Frame) bool {
	return func(f frame.Frame) bool {
		return f.Name() == name
	}
}

func nameContains(sub string) func(frame.Frame) bool {
	return func(f frame.Frame) bool {
		return strings.Contains(f.Name(), sub)
	}
}

func moduleIs(basename string) func(frame.Frame) bool {
	return func(f frame.Frame) bool {
		m := f.Module()
		if frame.IsNil(m) {
			return false
		}
		return m.Basename() == basename
	}
}

func callerIs(f frame.Frame, args ...interface{}) (bool, error) {
	name, err := stringParam(CallerIs, args)
	if err != nil {
		return false, err
	}
	return caller(f, nameIs(name)), nil
}

func anyCallerIs(f frame.Frame, args ...interface{}) (bool, error) {
	name, err := stringParam(AnyCallerIs, args)
	if err != nil {
		return false, err
	}
	return anyCaller(f, nameIs(name)), nil
}

func callerContains(f frame.Frame, args ...interface{}) (bool, error) {
	sub, err := stringParam(CallerContains, args)
	if err != nil {
		return false, err
	}
	return caller(f, nameContains(sub)), nil
}

func anyCallerContains(f frame.Frame, args ...interface{}) (bool, error) {
	sub, err := stringParam(AnyCallerContains, args)
	if err != nil {
		return false, err
	}
	return anyCaller(f, nameContains(sub)), nil
}

func callerMatches(f frame.Frame, args ...interface{}) (bool, error) {
	pattern, err := stringParam(CallerMatches, args)
	if err != nil {
		return false, err
	}
	re, err := regexcache.GetOrCompile(pattern)
	if err != nil {
		return false, err
	}
	return caller(f, func(c frame.Frame) bool {
		return re.MatchString(c.Name())
	}), nil
}

func anyCallerMatches(f frame.Frame, args ...interface{}) (bool, error) {
	pattern, err := stringParam(AnyCallerMatches, args)
	if err != nil {
		return false, err
	}
	re, err := regexcache.GetOrCompile(pattern)
	if err != nil {
		return false, err
	}
	return anyCaller(f, func(c frame.Frame) bool {
		return re.MatchString(c.Name())
	}), nil
}

func callerFrom(f frame.Frame, args ...interface{}) (bool, error) {
	basename, err := stringParam(CallerFrom, args)
	if err != nil {
		return false, err
	}
	return caller(f, moduleIs(basename)), nil
}

func anyCallerFrom(f frame.Frame, args ...interface{}) (bool, error) {
	basename, err := stringParam(AnyCallerFrom, args)
	if err != nil {
		return false, err
	}
	return anyCaller(f, moduleIs(basename)), nil
}

// calledOn 根据参数类型判断: 整数比较线程编号，字符串比较线程名或队列名
func calledOn(f frame.Frame, args ...interface{}) (bool, error) {
	if len(args) != 1 {
		return false, invalidParam(CalledOn, "want 1 parameter, got %d", len(args))
	}
	if frame.IsNil(f) {
		return false, nil
	}
	th := f.Thread()
	if frame.IsNil(th) {
		return false, nil
	}

	switch v := args[0].(type) {
	case string:
		return th.Name() == v || th.Queue() == v, nil
	case int:
		return indexIs(th.Index(), v), nil
	case int8:
		return indexIs(th.Index(), v), nil
	case int16:
		return indexIs(th.Index(), v), nil
	case int32:
		return indexIs(th.Index(), v), nil
	case int64:
		return indexIs(th.Index(), v), nil
	case uint:
		return indexIs(th.Index(), v), nil
	case uint8:
		return indexIs(th.Index(), v), nil
	case uint16:
		return indexIs(th.Index(), v), nil
	case uint32:
		return indexIs(th.Index(), v), nil
	case uint64:
		return indexIs(th.Index(), v), nil
	default:
		return false, invalidParam(CalledOn, "want integer or string, got %T", v)
	}
}

func indexIs[T constraints.Integer](idx int, v T) bool {
	if v < 0 {
		return int64(v) == int64(idx)
	}
	return idx >= 0 && uint64(v) == uint64(idx)
}
