package criteria

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/hitzhangjie/bpcond/pkg/frame"
)

// Condition is a parsed breakpoint condition such as
//
//	caller_is("main.main")
//	not any_caller_from("libc.so.6")
//	called_on(2)
type Condition struct {
	Negate bool
	Name   string
	Args   []interface{} // string or int64
}

// String formats c back into condition syntax.
func (c Condition) String() string {
	var b strings.Builder
	if c.Negate {
		b.WriteString("not ")
	}
	b.WriteString(c.Name)
	b.WriteByte('(')
	for i, a := range c.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		switch v := a.(type) {
		case string:
			b.WriteString(strconv.Quote(v))
		default:
			fmt.Fprintf(&b, "%v", v)
		}
	}
	b.WriteByte(')')
	return b.String()
}

// ParseCondition parses `[not] name(arg, ...)`. Arguments are quoted strings
// (double quotes with Go escapes, or single quotes) or integer literals.
func ParseCondition(s string) (Condition, error) {
	p := &condParser{input: s}
	return p.parse()
}

type condParser struct {
	input string
	pos   int
}

func (p *condParser) errorf(format string, args ...interface{}) error {
	return &ParseError{Input: p.input, Pos: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *condParser) skipSpace() {
	for p.pos < len(p.input) && unicode.IsSpace(rune(p.input[p.pos])) {
		p.pos++
	}
}

func (p *condParser) ident() string {
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || p.pos > start && c >= '0' && c <= '9' {
			p.pos++
			continue
		}
		break
	}
	return p.input[start:p.pos]
}

func (p *condParser) parse() (Condition, error) {
	var cond Condition

	p.skipSpace()
	name := p.ident()
	if name == "not" {
		cond.Negate = true
		p.skipSpace()
		name = p.ident()
	}
	if name == "" {
		return cond, p.errorf("expect predicate name")
	}
	cond.Name = name

	p.skipSpace()
	if p.pos >= len(p.input) || p.input[p.pos] != '(' {
		return cond, p.errorf("expect '('")
	}
	p.pos++

	p.skipSpace()
	if p.pos < len(p.input) && p.input[p.pos] == ')' {
		p.pos++
		return cond, p.end()
	}

	for {
		p.skipSpace()
		arg, err := p.arg()
		if err != nil {
			return cond, err
		}
		cond.Args = append(cond.Args, arg)

		p.skipSpace()
		if p.pos >= len(p.input) {
			return cond, p.errorf("expect ')'")
		}
		switch p.input[p.pos] {
		case ',':
			p.pos++
		case ')':
			p.pos++
			return cond, p.end()
		default:
			return cond, p.errorf("unexpected %q", p.input[p.pos])
		}
	}
}

func (p *condParser) end() error {
	p.skipSpace()
	if p.pos != len(p.input) {
		return p.errorf("trailing characters")
	}
	return nil
}

func (p *condParser) arg() (interface{}, error) {
	if p.pos >= len(p.input) {
		return nil, p.errorf("expect argument")
	}
	switch c := p.input[p.pos]; {
	case c == '"':
		return p.doubleQuoted()
	case c == '\'':
		return p.singleQuoted()
	case c == '-' || c == '+' || c >= '0' && c <= '9':
		return p.integer()
	default:
		return nil, p.errorf("unexpected %q", c)
	}
}

func (p *condParser) doubleQuoted() (interface{}, error) {
	start := p.pos
	p.pos++
	for p.pos < len(p.input) {
		switch p.input[p.pos] {
		case '\\':
			p.pos += 2
			continue
		case '"':
			p.pos++
			s, err := strconv.Unquote(p.input[start:p.pos])
			if err != nil {
				p.pos = start
				return nil, p.errorf("bad string: %v", err)
			}
			return s, nil
		}
		p.pos++
	}
	p.pos = start
	return nil, p.errorf("unterminated string")
}

// singleQuoted only understands \' and \\ escapes.
func (p *condParser) singleQuoted() (interface{}, error) {
	start := p.pos
	p.pos++

	var b strings.Builder
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		switch {
		case c == '\\' && p.pos+1 < len(p.input) && (p.input[p.pos+1] == '\'' || p.input[p.pos+1] == '\\'):
			b.WriteByte(p.input[p.pos+1])
			p.pos += 2
			continue
		case c == '\'':
			p.pos++
			return b.String(), nil
		}
		b.WriteByte(c)
		p.pos++
	}
	p.pos = start
	return nil, p.errorf("unterminated string")
}

func (p *condParser) integer() (interface{}, error) {
	start := p.pos
	if c := p.input[p.pos]; c == '-' || c == '+' {
		p.pos++
	}
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F' || c == 'x' || c == 'X' || c == '_' {
			p.pos++
			continue
		}
		break
	}
	v, err := strconv.ParseInt(p.input[start:p.pos], 0, 64)
	if err != nil {
		p.pos = start
		return nil, p.errorf("bad integer: %v", err)
	}
	return v, nil
}

// Resolve parses cond and binds it through the registered factory. A negated
// condition inverts the result; predicate errors are returned unchanged.
func (r *Registry) Resolve(cond string) (Callback, error) {
	c, err := ParseCondition(cond)
	if err != nil {
		return nil, err
	}
	return r.Bind(c)
}

// Bind looks up c.Name and binds c.Args.
func (r *Registry) Bind(c Condition) (Callback, error) {
	factory, ok := r.Lookup(c.Name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPredicate, c.Name)
	}

	cb := factory(c.Args...)
	if !c.Negate {
		return cb, nil
	}
	return func(f frame.Frame, loc, extra interface{}) (bool, error) {
		ok, err := cb(f, loc, extra)
		if err != nil {
			return false, err
		}
		return !ok, nil
	}, nil
}

// Resolve resolves cond against the process-wide registry.
func Resolve(cond string) (Callback, error) {
	return Default.Resolve(cond)
}
