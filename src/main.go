package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/integrii/flaggy"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"langton/src/rules"
	"langton/src/universe"
	"langton/src/view"
)

const builtinRules = "classic (built-in)"

type EnvOptions struct {
	interactive bool
	noColor     bool
	ant         string
	rulesPath   string
	logPath     string
	logLevel    string
}

func main() {
	eo, uo := initOptions()

	logger, closeLog, err := newLogger(eo)
	if err != nil {
		log.Fatal("can't open the log", "err", err)
	}

	err = run(eo, uo, logger)
	closeLog()
	if err != nil {
		log.Fatal("simulation failed", "err", err)
	}
}

func run(eo *EnvOptions, uo *universe.Options, logger *log.Logger) error {
	table, rulesName, err := loadRules(eo.rulesPath)
	if err != nil {
		return err
	}
	logger.Info("rules loaded", "rules", rulesName, "states", table.Names())

	//the UI outlives the step limit: the user can reset and run again
	uo.Hold = eo.interactive
	u, err := universe.NewBaseUniverse(uo, table, logger)
	if err != nil {
		return err
	}
	painter := view.NewPainter(table, eo.ant, !eo.noColor)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if eo.interactive {
		return runInteractive(ctx, u, painter, rulesName)
	}
	return runPlain(ctx, u, painter, logger)
}

//runPlain draws the frames to stdout until the step limit or an interrupt
func runPlain(ctx context.Context, u *universe.BaseUniverse, painter *view.Painter, logger *log.Logger) error {
	out := view.NewConsoleOut(os.Stdout, painter, view.WithTerminalWidth(stdoutWidth))
	u.RegisterViewer(out)

	startTime := time.Now()
	err := u.Run(ctx)
	if cerr := out.Close(); err == nil {
		err = cerr
	}

	st := u.Status()
	keyvals := []interface{}{"iteration", st.IterationNum, "total time", time.Since(startTime).Round(time.Millisecond)}
	for i, n := range st.Counts {
		keyvals = append(keyvals, u.Rules().Name(rules.State(i)), n)
	}
	logger.Info("finished", keyvals...)
	return err
}

//runInteractive runs the UI and the simulation side by side, whichever fails or quits first stops the other
func runInteractive(ctx context.Context, u *universe.BaseUniverse, painter *view.Painter, rulesName string) error {
	ui, err := view.NewViewTerminal(painter, rulesName)
	if err != nil {
		return err
	}
	u.RegisterViewer(ui)
	u.Pause()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return ui.Start(ctx)
	})
	g.Go(func() error {
		return u.Run(ctx)
	})
	return g.Wait()
}

//stdoutWidth returns the columns of the terminal, 0 when stdout is not a terminal
func stdoutWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0
	}
	return w
}

func loadRules(path string) (*rules.Table, string, error) {
	if path == "" {
		return rules.Classic(), builtinRules, nil
	}
	t, err := rules.LoadFile(path)
	if err != nil {
		return nil, "", err
	}
	return t, filepath.Base(path), nil
}

//newLogger writes to stderr, to the log file if set, or nowhere in the interactive mode
func newLogger(eo *EnvOptions) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(eo.logLevel)
	if err != nil {
		return nil, nil, err
	}

	var w io.Writer = os.Stderr
	closeLog := func() {}
	switch {
	case eo.logPath != "":
		f, err := os.OpenFile(eo.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		w = f
		closeLog = func() { _ = f.Close() }
	case eo.interactive:
		w = io.Discard
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "langton",
		Level:           level,
	})
	return logger, closeLog, nil
}

func initOptions() (eo *EnvOptions, uo *universe.Options) {

	o := universe.DefaultUniverseOptions
	uo = &o
	eo = &EnvOptions{ant: view.DefaultAnt, logLevel: log.InfoLevel.String()}

	flaggy.SetName("langton")
	flaggy.SetDescription("Langton's Ant simulation in the terminal")
	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.AddPositionalValue(&eo.rulesPath, "rules", 1, false, "Path to the JSON rule file, the classic two color ant if omitted")
	flaggy.Int(&uo.Rows, "r", "rows", "Rows of the grid")
	flaggy.Int(&uo.Columns, "c", "columns", "Columns of the grid")
	flaggy.Int(&uo.FPS, "f", "fps", "Frames (steps) per second")
	flaggy.Int(&uo.MaxSteps, "s", "maxSteps", "Stop after maxSteps steps, 0 for no limit")
	flaggy.UInt64(&uo.Seed, "", "seed", "Seed of the ant placement, 0 for a random one")
	flaggy.Bool(&eo.interactive, "n", "interactive", "Start interactive mode")
	flaggy.String(&eo.ant, "a", "ant", "The ant glyph")
	flaggy.Bool(&eo.noColor, "", "no-color", "Disable colors")
	flaggy.String(&eo.logPath, "l", "log", "Write the log to this file")
	flaggy.String(&eo.logLevel, "", "log-level", "Log level [debug|info|warn|error]")

	flaggy.Parse()

	return
}
