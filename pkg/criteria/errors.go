package criteria

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidParam     = errors.New("invalid predicate parameter")
	ErrUnknownPredicate = errors.New("unknown predicate")
)

// ParseError condition string is malformed
type ParseError struct {
	Input string
	Pos   int
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse condition %q at %d: %s", e.Input, e.Pos, e.Msg)
}

func invalidParam(predicate string, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w: %s", predicate, ErrInvalidParam, fmt.Sprintf(format, args...))
}
