package shell

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/hitzhangjie/bpcond/pkg/criteria"
	"github.com/hitzhangjie/bpcond/pkg/frame"
	"github.com/hitzhangjie/bpcond/pkg/target"
)

const (
	cmdGroupAnnotation = "cmd_group_annotation"

	cmdGroupBreakpoints = "1-breaks"
	cmdGroupStack       = "2-stack"
	cmdGroupCtrlFlow    = "3-execute"
	cmdGroupInfo        = "4-info"
	cmdGroupOthers      = "5-other"
	cmdGroupCobra       = "other"

	cmdGroupDelimiter = "-"

	defaultPrefix = "bpcond> "
	descShort     = "bpcond interactive commands"
)

var shellRootCmd = &cobra.Command{
	Use:   "help [command]",
	Short: descShort,
}

var (
	CurrentSession *Session
)

// ErrNoStack 还没有加载模拟的调用栈
var ErrNoStack = errors.New("no stack loaded, use 'stack <file>' or 'frames <name>...'")

// Session 交互式会话，模拟调试器在断点处停止，验证断点条件
type Session struct {
	done    chan bool
	prefix  string
	history string
	root    *cobra.Command
	liner   *liner.State
	last    string

	Registry *criteria.Registry
	Table    *target.BreakpointTable
	Desc     frame.StackDesc
	Thread   *frame.StackThread

	defers []func()
}

// Option 会话选项
type Option func(*Session)

// WithPrompt sets the prompt prefix.
func WithPrompt(prefix string) Option {
	return func(s *Session) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithHistory loads and saves line history from file.
func WithHistory(file string) Option {
	return func(s *Session) {
		s.history = file
	}
}

// WithRegistry resolves conditions against r instead of criteria.Default.
func WithRegistry(r *criteria.Registry) Option {
	return func(s *Session) {
		s.Registry = r
	}
}

// NewSession 创建一个交互管理器
func NewSession(opts ...Option) *Session {

	fn := func(cmd *cobra.Command, args []string) {
		// 描述信息
		fmt.Println(cmd.Short)
		fmt.Println()

		// 使用信息
		fmt.Println(cmd.Use)
		fmt.Println(cmd.Flags().FlagUsages())

		// 命令分组
		usage := helpMessageByGroups(cmd)
		fmt.Println(usage)
	}
	shellRootCmd.SetHelpFunc(fn)

	s := &Session{
		done:     make(chan bool),
		prefix:   defaultPrefix,
		root:     shellRootCmd,
		last:     "",
		Registry: criteria.Default,
	}
	for _, o := range opts {
		o(s)
	}
	s.Table = target.NewBreakpointTable(s.Registry)
	return s
}

// SetStack replaces the simulated stopped thread.
func (s *Session) SetStack(desc frame.StackDesc) error {
	th, err := frame.NewStack(desc)
	if err != nil {
		return err
	}
	s.Desc = desc
	s.Thread = th
	return nil
}

// Current returns the stopped frame.
func (s *Session) Current() (frame.Frame, error) {
	if s.Thread == nil {
		return nil, ErrNoStack
	}
	return s.Thread.Current(), nil
}

// Start runs the read-eval loop until exit or EOF.
func (s *Session) Start() {
	s.liner = liner.NewLiner()
	s.liner.SetCompleter(completer)
	s.liner.SetTabCompletionStyle(liner.TabPrints)

	s.readHistory()

	defer func() {
		for idx := len(s.defers) - 1; idx >= 0; idx-- {
			s.defers[idx]()
		}
	}()
	defer s.writeHistory()
	defer s.liner.Close()

	for {
		select {
		case <-s.done:
			return
		default:
		}

		txt, err := s.liner.Prompt(s.prefix)
		if err == io.EOF || err == liner.ErrPromptAborted {
			return
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "read line error: %v\n", err)
			return
		}

		txt = strings.TrimSpace(txt)
		if len(txt) != 0 {
			s.last = txt
			s.liner.AppendHistory(txt)
		} else {
			txt = s.last
		}
		if txt == "" {
			continue
		}
		s.Exec(txt)
	}
}

// Exec runs one command line.
func (s *Session) Exec(line string) error {
	CurrentSession = s
	s.root.SetArgs(splitLine(s.root, line))
	return s.root.Execute()
}

// splitLine splits line on white space, except that a command which parses
// its own arguments (DisableFlagParsing) gets the rest of the line untouched,
// so quoted condition arguments keep their spacing.
func splitLine(root *cobra.Command, line string) []string {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return fields
	}

	c, _, err := root.Find(fields[:1])
	if err != nil || c == root || !c.DisableFlagParsing {
		return fields
	}

	rest := strings.TrimSpace(line)
	rest = strings.TrimSpace(rest[len(fields[0]):])
	return []string{fields[0], rest}
}

func (s *Session) AtExit(fn func()) *Session {
	s.defers = append(s.defers, fn)
	return s
}

func (s *Session) Stop() {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
}

func (s *Session) readHistory() {
	if s.history == "" {
		return
	}
	f, err := os.Open(s.history)
	if err != nil {
		return
	}
	defer f.Close()
	s.liner.ReadHistory(f)
}

func (s *Session) writeHistory() {
	if s.history == "" {
		return
	}
	f, err := os.Create(s.history)
	if err != nil {
		fmt.Fprintf(os.Stderr, "write history %s, err: %v\n", s.history, err)
		return
	}
	defer f.Close()
	s.liner.WriteHistory(f)
}

func completer(line string) []string {
	cmds := []string{}
	for _, c := range shellRootCmd.Commands() {
		// complete cmd
		if strings.HasPrefix(c.Use, line) {
			cmds = append(cmds, strings.Split(c.Use, " ")[0])
		}
		// complete cmd's aliases
		for _, alias := range c.Aliases {
			if strings.HasPrefix(alias, line) {
				cmds = append(cmds, alias)
			}
		}
	}

	// complete predicate names after "break <pos> " and "eval "
	fields := strings.Fields(line)
	if len(fields) >= 2 && (fields[0] == "eval" || fields[0] == "break" || fields[0] == "b") && !strings.HasSuffix(line, " ") {
		last := fields[len(fields)-1]
		head := strings.TrimSuffix(line, last)
		for _, name := range criteria.Default.Names() {
			if strings.HasPrefix(name, last) {
				cmds = append(cmds, head+name+"(")
			}
		}
	}
	return cmds
}

// helpMessageByGroups 将各个命令按照分组归类，再展示帮助信息
func helpMessageByGroups(cmd *cobra.Command) string {

	// key:group, val:sorted commands in same group
	groups := map[string][]string{}
	for _, c := range cmd.Commands() {
		// 如果没有指定命令分组，放入other组
		var groupName string
		v, ok := c.Annotations[cmdGroupAnnotation]
		if !ok {
			groupName = cmdGroupCobra
		} else {
			groupName = v
		}

		groupCmds := groups[groupName]
		groupCmds = append(groupCmds, fmt.Sprintf("  %-16s:%s", c.Name(), c.Short))
		sort.Strings(groupCmds)

		groups[groupName] = groupCmds
	}

	if len(groups[cmdGroupCobra]) != 0 {
		groups[cmdGroupOthers] = append(groups[cmdGroupOthers], groups[cmdGroupCobra]...)
	}
	delete(groups, cmdGroupCobra)

	// 按照分组名进行排序
	groupNames := []string{}
	for k := range groups {
		groupNames = append(groupNames, k)
	}
	sort.Strings(groupNames)

	// 按照group分组，并对组内命令进行排序
	buf := bytes.Buffer{}
	for _, groupName := range groupNames {
		commands := groups[groupName]

		group := strings.Split(groupName, cmdGroupDelimiter)[1]
		buf.WriteString(fmt.Sprintf("- [%s]\n", group))

		for _, cmd := range commands {
			buf.WriteString(fmt.Sprintf("%s\n", cmd))
		}
		buf.WriteString("\n")
	}
	return buf.String()
}
