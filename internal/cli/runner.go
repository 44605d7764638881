package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-faster/errors"
	"github.com/rs/zerolog"

	"github.com/idilsaglam/feedpager/internal/auth"
	"github.com/idilsaglam/feedpager/internal/config"
	"github.com/idilsaglam/feedpager/internal/fetch"
	"github.com/idilsaglam/feedpager/internal/logging"
	"github.com/idilsaglam/feedpager/internal/metrics"
	"github.com/idilsaglam/feedpager/internal/model"
	"github.com/idilsaglam/feedpager/internal/pager"
	"github.com/idilsaglam/feedpager/internal/state"
	"github.com/idilsaglam/feedpager/internal/store/jsonstore"
	"github.com/idilsaglam/feedpager/internal/tui"
	"github.com/idilsaglam/feedpager/internal/ui"
)

// Options tune output behavior from root flags.
type Options struct {
	ConfigPath string
	Theme      string // overrides the configured theme when set
	RenderAll  bool   // list every record instead of the page slice
	NoColor    bool

	// Fetcher replaces the HTTP fetcher (tests).
	Fetcher tui.Fetcher
	// Out receives command output (default os.Stdout).
	Out io.Writer
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	if len(args) == 0 {
		PrintHelp()
		return 2
	}
	cmd, a := args[0], args[1:]

	if cmd == "help" || cmd == "-h" || cmd == "--help" {
		PrintHelp()
		return 0
	}

	cfg, err := config.Load(opt.ConfigPath)
	if err != nil {
		ui.Fail("config: " + err.Error())
		return 1
	}
	if opt.Theme != "" {
		cfg.Theme = opt.Theme
	}
	if opt.RenderAll {
		cfg.RenderAll = true
	}
	ui.SetTheme(cfg.Theme)
	if opt.NoColor {
		ui.SetColorForcing(false, true)
	}
	if opt.Out == nil {
		opt.Out = os.Stdout
	}

	switch cmd {
	case "ls":
		return doList(cfg, opt)

	case "show":
		if len(a) > 1 {
			ui.Fail("usage: feedpager show [page]")
			return 2
		}
		page := 0
		if len(a) == 1 {
			n, err := strconv.Atoi(a[0])
			if err != nil || n < 0 {
				ui.Fail("show: not a page number: " + a[0])
				return 2
			}
			page = n
		}
		return doShow(cfg, opt, page)

	case "export":
		if len(a) != 1 {
			ui.Fail("usage: feedpager export <file|->")
			return 2
		}
		return doExport(cfg, opt, a[0])

	case "auth":
		if len(a) != 1 {
			ui.Fail("usage: feedpager auth <login|logout|status>")
			return 2
		}
		switch a[0] {
		case "login":
			return doAuthLogin()
		case "logout":
			return doAuthLogout()
		case "status":
			return doAuthStatus(opt.Out)
		}
		ui.Fail("usage: feedpager auth <login|logout|status>")
		return 2
	}

	ui.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(os.Stderr)
	PrintHelp()
	return 2
}

func PrintHelp() {
	fmt.Printf(`feedpager - page through a remote JSON list

Usage:
  feedpager [flags] <subcommand> [args]

Subcommands:
  ls                 Interactive list (←/→ page, 1-9 pick button, r refresh, q quit)
  show [page]        Fetch once and print one page
  export <file|->    Fetch once and write every record as JSON
  auth <login|logout|status>   Bearer token for the endpoint

Flags:
  -config <file>     Config file (default: feedpager.{yaml,json,toml} in . or ~/.feedpager)
  -theme <name>      classic | neon | mono
  -all               List every record instead of the selected page
  -no-color          Disable colors

Environment:
  FEEDPAGER_ENDPOINT, FEEDPAGER_ITEMS_PER_PAGE, FEEDPAGER_WINDOW_SIZE, ...
  FEEDPAGER_TOKEN    Overrides stored credentials

Examples:
  feedpager ls
  feedpager show 3
  feedpager export posts.json
`)
}

// -------------- subcommand impls ----------------

func newFetcher(cfg *config.Config, opt Options) tui.Fetcher {
	if opt.Fetcher != nil {
		return opt.Fetcher
	}
	return fetch.New(fetch.Config{
		Endpoint: cfg.Endpoint,
		Timeout:  cfg.RequestTimeout,
		Token:    auth.Token,
	}, fetch.WithLogger(logging.NewLogger("fetch")))
}

func logConfig(cfg *config.Config) logging.Config {
	lc := logging.DefaultConfig()
	if cfg.LogLevel != "" {
		lc.Level = cfg.LogLevel
	}
	lc.Pretty = cfg.LogPretty
	return lc
}

func startMetrics(ctx context.Context, cfg *config.Config, logger zerolog.Logger) bool {
	if cfg.MetricsAddr == "" {
		return true
	}
	if err := metrics.Serve(ctx, cfg.MetricsAddr, logger); err != nil {
		ui.Fail("metrics: " + err.Error())
		return false
	}
	return true
}

func doList(cfg *config.Config, opt Options) int {
	// The screen owns the terminal, so logs are held back until it closes
	// unless a log file was configured.
	var deferred logging.Deferred
	logCfg := logConfig(cfg)
	logCfg.Output = &deferred
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			ui.Fail("log file: " + err.Error())
			return 1
		}
		defer f.Close()
		logCfg.Output = f
		logCfg.Pretty = false
	}
	logger := logging.Setup(logCfg)
	defer func() { _ = deferred.Flush(os.Stderr) }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if !startMetrics(ctx, cfg, logger) {
		return 1
	}

	store := state.NewStore(cfg.ItemsPerPage)
	err := tui.Run(store, newFetcher(cfg, opt), tui.Options{
		Title:        cfg.Endpoint,
		WindowSize:   cfg.WindowSize,
		RefreshDelay: cfg.RefreshDelay,
		RenderAll:    cfg.RenderAll,
	}, logging.NewLogger("tui"))
	if err != nil {
		ui.Fail("tui: " + err.Error())
		return 1
	}
	return 0
}

// fetchOnce runs one fetch cycle through the store, the same way the screen does.
func fetchOnce(cfg *config.Config, opt Options) (state.ListState, error) {
	logger := logging.Setup(logConfig(cfg))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if !startMetrics(ctx, cfg, logger) {
		return state.ListState{}, errors.New("metrics listener")
	}

	store := state.NewStore(cfg.ItemsPerPage)
	gen := store.Dispatch(state.StartLoading{}).Generation
	recs, err := newFetcher(cfg, opt).Fetch(ctx)
	if err != nil {
		return store.Dispatch(state.Failed{Generation: gen, Err: err}), err
	}
	return store.Dispatch(state.Loaded{Generation: gen, Records: recs}), nil
}

func doShow(cfg *config.Config, opt Options, page int) int {
	st, err := fetchOnce(cfg, opt)
	if err != nil {
		ui.Fail("fetch: " + err.Error())
		return 1
	}
	st = state.Reduce(st, state.SelectPage{Page: page})

	t := ui.Current()
	header := fmt.Sprintf("%s  %s %d  %s %s",
		ui.C(t.Title, "Records"),
		ui.C(t.Accent, "Total"), len(st.Records),
		ui.C(t.Accent, "Page"), fmt.Sprintf("%d/%d", st.CurrentPage, st.LastPage()),
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, ui.C(t.Muted, ui.ProgressBar(st.CurrentPage, st.LastPage(), 28)))
	lines = append(lines, "")
	lines = append(lines, recordLines(st, cfg.RenderAll)...)
	lines = append(lines, "")
	lines = append(lines, ui.ButtonRow(pager.Buttons(st.CurrentPage, st.LastPage(), cfg.WindowSize)))
	lines = append(lines, ui.C(t.Muted, fmt.Sprintf("%s · %s", cfg.Endpoint, humanize.Comma(int64(len(st.Records)))+" records")))
	fmt.Fprint(opt.Out, ui.PanelString(lines))
	return 0
}

func recordLines(st state.ListState, all bool) []string {
	if st.Empty() {
		return []string{ui.C(ui.Current().Muted, "There's no data yet =/")}
	}
	recs := st.PageRecords()
	if all {
		recs = st.Records
	}
	if len(recs) == 0 {
		return []string{ui.C(ui.Current().Muted, fmt.Sprintf("no records on page %d", st.CurrentPage))}
	}
	return linesFor(recs)
}

func linesFor(recs []model.Record) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, ui.RecordLine(r, 100))
	}
	return out
}

func doExport(cfg *config.Config, opt Options, dest string) int {
	st, err := fetchOnce(cfg, opt)
	if err != nil {
		ui.Fail("fetch: " + err.Error())
		return 1
	}
	if dest == "-" {
		if err := jsonstore.Write(opt.Out, st.Records); err != nil {
			ui.Fail("export: " + err.Error())
			return 1
		}
		return 0
	}
	if err := jsonstore.Save(dest, st.Records); err != nil {
		ui.Fail("export: " + err.Error())
		return 1
	}
	ui.OK(fmt.Sprintf("exported %d records to %s", len(st.Records), dest))
	return 0
}

// -------------- auth ----------------

func doAuthLogin() int {
	fmt.Print("Paste your token: ")
	var token string
	if _, err := fmt.Scanln(&token); err != nil {
		ui.Fail("read token: " + err.Error())
		return 1
	}
	if err := auth.SetToken(token); err != nil {
		ui.Fail("save token: " + err.Error())
		return 1
	}
	ui.OK("logged in")
	return 0
}

func doAuthLogout() int {
	ti, _ := auth.GetToken()
	if ti != nil && ti.Source == "env" {
		ui.OK("token is provided by " + auth.EnvToken + " (nothing to delete)")
		return 0
	}
	if err := auth.DeleteToken(); err != nil {
		ui.Fail("logout: " + err.Error())
		return 1
	}
	ui.OK("logged out")
	return 0
}

func doAuthStatus(w io.Writer) int {
	ti, err := auth.GetToken()
	if err != nil {
		ui.Fail("status: " + err.Error())
		return 1
	}
	if ti == nil {
		fmt.Fprintln(w, ui.C(ui.Current().Muted, "not logged in"))
		fmt.Fprintln(w, "Run: feedpager auth login")
		return 0
	}
	fmt.Fprintf(w, "source: %s\n", ti.Source)
	if !ti.CreatedAt.IsZero() {
		fmt.Fprintf(w, "saved: %s\n", humanize.Time(ti.CreatedAt))
	}
	fmt.Fprintf(w, "token: %s\n", mask(ti.Token))
	fmt.Fprintln(w, "env override: "+auth.EnvToken)
	return 0
}

func mask(tok string) string {
	if len(tok) <= 4 {
		return strings.Repeat("*", len(tok))
	}
	return strings.Repeat("*", len(tok)-4) + tok[len(tok)-4:]
}
