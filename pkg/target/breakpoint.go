package target

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/atomic"

	"github.com/hitzhangjie/bpcond/pkg/criteria"
	"github.com/hitzhangjie/bpcond/pkg/frame"
)

var (
	ErrBreakpointNotExisted = errors.New("breakpoint not existed")
	ErrEmptyLocation        = errors.New("breakpoint location is empty")
)

var (
	bpSeqNo = atomic.NewUint64(0)
)

// Breakpoint 断点信息
type Breakpoint struct {
	ID       uint64         // 断点编号
	Pos      string         // 源文件位置或者函数名
	Cond     string         // 条件表达式，为空表示无条件停止
	Enabled  *atomic.Bool   // 断点是否启用
	HitCount *atomic.Uint64 // 命中次数

	check criteria.Callback
}

// 在位置location处创建一个断点，cond已经由调用方解析为check
func newBreakPoint(location, cond string, check criteria.Callback) *Breakpoint {
	return &Breakpoint{
		ID:       bpSeqNo.Add(1),
		Pos:      location,
		Cond:     cond,
		Enabled:  atomic.NewBool(true),
		HitCount: atomic.NewUint64(0),
		check:    check,
	}
}

// ShouldStop evaluates the breakpoint's condition against f.
func (b *Breakpoint) ShouldStop(f frame.Frame, loc interface{}) (bool, error) {
	if b.check == nil {
		return true, nil
	}
	return b.check(f, loc, nil)
}

func (b *Breakpoint) String() string {
	state := "enabled"
	if !b.Enabled.Load() {
		state = "disabled"
	}
	cond := b.Cond
	if cond == "" {
		cond = "-"
	}
	return fmt.Sprintf("%d\t%s\t%s\t%s\t%d", b.ID, b.Pos, state, cond, b.HitCount.Load())
}

// Breakpoints 所有的断点信息
type Breakpoints []*Breakpoint

// Len 返回长度
func (b Breakpoints) Len() int {
	return len(b)
}

// Less 检查b[i]是否小于b[j]
func (b Breakpoints) Less(i, j int) bool {
	return b[i].ID < b[j].ID
}

// Swap 交换b[i]和b[j]
func (b Breakpoints) Swap(i, j int) {
	b[i], b[j] = b[j], b[i]
}

// BreakpointTable 断点表，条件表达式通过registry解析
type BreakpointTable struct {
	mu       sync.Mutex
	registry *criteria.Registry
	bps      map[uint64]*Breakpoint
}

// NewBreakpointTable creates a table resolving conditions against r, or
// against criteria.Default if r is nil.
func NewBreakpointTable(r *criteria.Registry) *BreakpointTable {
	if r == nil {
		r = criteria.Default
	}
	return &BreakpointTable{
		registry: r,
		bps:      map[uint64]*Breakpoint{},
	}
}

// Add 添加断点，cond为空时断点无条件停止
func (t *BreakpointTable) Add(pos, cond string) (*Breakpoint, error) {
	if pos == "" {
		return nil, ErrEmptyLocation
	}

	var check criteria.Callback
	if cond != "" {
		cb, err := t.registry.Resolve(cond)
		if err != nil {
			return nil, err
		}
		check = cb
	}

	bp := newBreakPoint(pos, cond, check)

	t.mu.Lock()
	t.bps[bp.ID] = bp
	t.mu.Unlock()

	return bp, nil
}

// Clear 删除指定编号的断点
func (t *BreakpointTable) Clear(id uint64) (*Breakpoint, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	bp, ok := t.bps[id]
	if !ok {
		return nil, ErrBreakpointNotExisted
	}
	delete(t.bps, id)
	return bp, nil
}

// ClearAll 删除所有断点，返回删除的数量
func (t *BreakpointTable) ClearAll() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := len(t.bps)
	t.bps = map[uint64]*Breakpoint{}
	return n
}

// SetEnabled 启用或者禁用断点
func (t *BreakpointTable) SetEnabled(id uint64, enabled bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	bp, ok := t.bps[id]
	if !ok {
		return ErrBreakpointNotExisted
	}
	bp.Enabled.Store(enabled)
	return nil
}

// List returns all breakpoints ordered by ID.
func (t *BreakpointTable) List() Breakpoints {
	t.mu.Lock()
	bs := make(Breakpoints, 0, len(t.bps))
	for _, bp := range t.bps {
		bs = append(bs, bp)
	}
	t.mu.Unlock()

	sort.Sort(bs)
	return bs
}

// StopResult 一个断点在一次停止事件中的判定结果
type StopResult struct {
	Breakpoint *Breakpoint
	Stop       bool
	Err        error
}

// Stop is called when the thread owning f stops at pos. Every enabled
// breakpoint at pos is counted as hit and its condition evaluated. A condition
// that fails is reported in Err and does not stop the thread.
func (t *BreakpointTable) Stop(f frame.Frame, pos string) []StopResult {
	var results []StopResult
	for _, bp := range t.List() {
		if !bp.Enabled.Load() || bp.Pos != pos {
			continue
		}
		bp.HitCount.Inc()

		stop, err := bp.ShouldStop(f, pos)
		if err != nil {
			stop = false
		}
		results = append(results, StopResult{Breakpoint: bp, Stop: stop, Err: err})
	}
	return results
}

// ShouldStop reports whether any result asks to stop.
func ShouldStop(results []StopResult) bool {
	for _, r := range results {
		if r.Stop {
			return true
		}
	}
	return false
}
