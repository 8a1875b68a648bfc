// Package frame describes the stopped-thread objects a debugger hands to a
// breakpoint condition. The debugger owns these objects; conditions only read
// them.
package frame

import (
	"github.com/modern-go/reflect2"
)

// Frame 停止时的一个栈帧
type Frame interface {
	// Name returns the symbol name of the function executing in this frame.
	Name() string
	// Parent returns the calling frame, or nil for the outermost frame.
	Parent() Frame
	// Thread returns the thread this frame belongs to.
	Thread() Thread
	// Module returns the binary or library containing the frame's code.
	Module() Module
}

// Thread 被停止的线程
type Thread interface {
	// Frames returns the call stack, current frame first, outermost last.
	Frames() []Frame
	Index() int
	Name() string
	Queue() string
}

// Module 栈帧代码所在的可执行文件或者动态库
type Module interface {
	Path() string
	// Basename is the file name of Path without any directory.
	Basename() string
}

// IsNil reports whether v is nil, including a typed nil pointer stored in an
// interface. Host adapters commonly return (*T)(nil) for a missing parent.
func IsNil(v interface{}) bool {
	return v == nil || reflect2.IsNil(v)
}

// Callers returns the frames of f's thread with the current (first) frame
// dropped, whichever frame of the thread f is. It returns nil when f has no
// thread.
func Callers(f Frame) []Frame {
	if IsNil(f) {
		return nil
	}
	th := f.Thread()
	if IsNil(th) {
		return nil
	}
	frames := th.Frames()
	if len(frames) <= 1 {
		return nil
	}
	return frames[1:]
}

// Caller returns f's parent frame, or nil if there is none.
func Caller(f Frame) Frame {
	if IsNil(f) {
		return nil
	}
	p := f.Parent()
	if IsNil(p) {
		return nil
	}
	return p
}

// ModuleBasename returns the basename of f's module, or "" if f has no module.
func ModuleBasename(f Frame) string {
	if IsNil(f) {
		return ""
	}
	m := f.Module()
	if IsNil(m) {
		return ""
	}
	return m.Basename()
}
