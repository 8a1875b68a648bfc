package frame

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/spf13/viper"
)

// ErrEmptyStack a thread must have at least the current frame
var ErrEmptyStack = errors.New("stack has no frames")

// FrameDesc describes one frame of a simulated stop.
type FrameDesc struct {
	Name   string `mapstructure:"name"`
	Module string `mapstructure:"module"`
}

// StackDesc describes a simulated stopped thread, frames current first.
//
// It is the shape of a stack file:
//
//	index: 2
//	name: worker
//	queue: com.example.io
//	frames:
//	  - {name: read, module: /usr/lib/libc.so.6}
//	  - {name: main.loop, module: /tmp/app}
type StackDesc struct {
	Index  int         `mapstructure:"index"`
	Name   string      `mapstructure:"name"`
	Queue  string      `mapstructure:"queue"`
	Frames []FrameDesc `mapstructure:"frames"`
}

// StackThread an in-memory Thread
type StackThread struct {
	index  int
	name   string
	queue  string
	frames []Frame
}

// StackFrame an in-memory Frame, linked to its caller
type StackFrame struct {
	name   string
	parent *StackFrame
	thread *StackThread
	module *StackModule
}

// StackModule an in-memory Module
type StackModule struct {
	path string
}

// NewStack builds a thread and its linked frames from desc.
func NewStack(desc StackDesc) (*StackThread, error) {
	if len(desc.Frames) == 0 {
		return nil, ErrEmptyStack
	}

	th := &StackThread{
		index: desc.Index,
		name:  desc.Name,
		queue: desc.Queue,
	}

	// 从最外层开始构建，这样每个栈帧创建时其调用方已经存在
	frames := make([]*StackFrame, len(desc.Frames))
	var parent *StackFrame
	for i := len(desc.Frames) - 1; i >= 0; i-- {
		fd := desc.Frames[i]
		f := &StackFrame{
			name:   fd.Name,
			parent: parent,
			thread: th,
		}
		if fd.Module != "" {
			f.module = &StackModule{path: fd.Module}
		}
		frames[i] = f
		parent = f
	}

	th.frames = make([]Frame, len(frames))
	for i, f := range frames {
		th.frames[i] = f
	}
	return th, nil
}

// LoadStack reads a stack description from a yaml, json or toml file.
func LoadStack(file string) (*StackThread, error) {
	v := viper.New()
	v.SetConfigFile(file)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read stack file %s: %w", file, err)
	}

	var desc StackDesc
	if err := v.Unmarshal(&desc); err != nil {
		return nil, fmt.Errorf("decode stack file %s: %w", file, err)
	}
	return NewStack(desc)
}

// Current returns the stopped frame.
func (t *StackThread) Current() Frame {
	return t.frames[0]
}

func (t *StackThread) Frames() []Frame {
	return t.frames
}

func (t *StackThread) Index() int {
	return t.index
}

func (t *StackThread) Name() string {
	return t.name
}

func (t *StackThread) Queue() string {
	return t.queue
}

// String formats the thread like a backtrace.
func (t *StackThread) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "thread #%d name:%q queue:%q\n", t.index, t.name, t.queue)
	for i, f := range t.frames {
		mod := ModuleBasename(f)
		if mod == "" {
			mod = "?"
		}
		fmt.Fprintf(&b, "#%d call:%s module:%s\n", i, f.Name(), mod)
	}
	return b.String()
}

func (f *StackFrame) Name() string {
	return f.name
}

// Parent never returns a typed nil.
func (f *StackFrame) Parent() Frame {
	if f.parent == nil {
		return nil
	}
	return f.parent
}

func (f *StackFrame) Thread() Thread {
	return f.thread
}

func (f *StackFrame) Module() Module {
	if f.module == nil {
		return nil
	}
	return f.module
}

func (m *StackModule) Path() string {
	return m.path
}

func (m *StackModule) Basename() string {
	return path.Base(m.path)
}
