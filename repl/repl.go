package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/drpcorg/propsync/entity"
	"github.com/drpcorg/propsync/network"
	"github.com/drpcorg/propsync/replica"
	"github.com/drpcorg/propsync/snapstore"
	"github.com/drpcorg/propsync/utils"
	"github.com/ergochat/readline"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/puzpuzpuz/xsync/v3"
)

// REPL per se.
type REPL struct {
	log     utils.Logger
	layouts *entity.Registry
	metrics *prometheus.Registry

	store *snapstore.Store
	host  *replica.Host
	// srv serves observers, cli keeps subscriptions to other hosts
	srv, cli *network.Net
	subs     *xsync.MapOf[string, *replica.Subscription]
	http     *http.Server
	pebble   prometheus.Collector

	rl *readline.Instance
	// lock serializes console and HTTP commands
	lock sync.Mutex
}

var ErrNotOpen = errors.New("no replica open, try: open <dir>")

var completer = readline.NewPrefixCompleter(
	readline.PcItem("help"),

	readline.PcItem("open"),
	readline.PcItem("close"),

	readline.PcItem("layout"),
	readline.PcItem("layouts"),
	readline.PcItem("spawn"),
	readline.PcItem("despawn"),
	readline.PcItem("set"),
	readline.PcItem("tick"),
	readline.PcItem("show"),
	readline.PcItem("list"),

	readline.PcItem("listen"),
	readline.PcItem("connect"),
	readline.PcItem("disconnect"),
	readline.PcItem("verify"),
	readline.PcItem("http"),

	readline.PcItem("exit"),
	readline.PcItem("quit"),
)

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func NewREPL() *REPL {
	return &REPL{
		log:     utils.NewDefaultLogger(slog.LevelWarn),
		layouts: entity.NewRegistry(),
		metrics: prometheus.NewRegistry(),
		subs:    xsync.NewMapOf[string, *replica.Subscription](),
	}
}

func (repl *REPL) Open() (err error) {
	repl.rl, err = readline.NewEx(&readline.Config{
		Prompt:          "◌ ",
		HistoryFile:     ".propsync_cmd_log.txt",
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return
	}
	repl.rl.CaptureExitSignal()
	return
}

func (repl *REPL) Close() error {
	repl.lock.Lock()
	_ = repl.CommandClose(io.Discard, nil)
	repl.lock.Unlock()
	if repl.http != nil {
		_ = repl.http.Close()
		repl.http = nil
	}
	if repl.rl != nil {
		_ = repl.rl.Close()
		repl.rl = nil
	}
	return nil
}

// REPL reads and runs one command line.
func (repl *REPL) REPL() (err error) {
	var line string
	line, err = repl.rl.Readline()
	if err == readline.ErrInterrupt && len(line) != 0 {
		return nil
	}
	if err != nil {
		return err
	}
	return repl.Run(os.Stdout, line)
}

// Run executes a command line; the console and the HTTP handlers both go
// through it.
func (repl *REPL) Run(out io.Writer, line string) (err error) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return nil
	}
	repl.lock.Lock()
	defer repl.lock.Unlock()
	cmd, args := args[0], args[1:]
	switch cmd {
	case "help":
		err = repl.CommandHelp(out, args)
	// replica open/close
	case "open":
		err = repl.CommandOpen(out, args)
	case "close":
		err = repl.CommandClose(out, args)
	case "exit", "quit":
		if err = repl.CommandClose(out, args); err == nil {
			err = io.EOF
		}
	// ----- entities -----
	case "layout":
		err = repl.CommandLayout(out, args)
	case "layouts":
		err = repl.CommandLayouts(out, args)
	case "spawn":
		err = repl.CommandSpawn(out, args)
	case "despawn":
		err = repl.CommandDespawn(out, args)
	case "set":
		err = repl.CommandSet(out, args)
	case "tick":
		err = repl.CommandTick(out, args)
	case "show", "cat":
		err = repl.CommandShow(out, args)
	case "ls", "list":
		err = repl.CommandList(out, args)
	// ----- networking -----
	case "listen":
		err = repl.CommandListen(out, args)
	case "connect":
		err = repl.CommandConnect(out, args)
	case "disconnect":
		err = repl.CommandDisconnect(out, args)
	case "verify":
		err = repl.CommandVerify(out, args)
	case "http":
		err = repl.CommandHTTP(out, args)
	default:
		err = fmt.Errorf("command unknown: %s", cmd)
	}
	return
}

func main() {
	repl := NewREPL()
	if err := repl.Open(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(-1)
	}
	var err error
	if len(os.Args) > 1 {
		err = repl.Run(os.Stdout, "open "+os.Args[1])
	}
	for err != io.EOF {
		if err != nil {
			_, _ = fmt.Fprintf(os.Stdout, "%s\n", err.Error())
		}
		err = repl.REPL()
	}
	_ = repl.Close()
}
