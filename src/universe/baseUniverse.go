package universe

import (
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"langton/src/rules"
	"langton/src/ticker"
)

//Options represents the Universe's configurable options
type Options struct {
	Rows     int
	Columns  int
	FPS      int
	MaxSteps int    //0 means no limit
	Seed     uint64 //0 means a random seed
	Hold     bool   //keep Run going after the step limit, so the universe can be reset and run again
}

//Status represents the status of the Universe at concrete moment
type Status struct {
	IterationNum  int
	RunningMode   RunningState
	Ant           Ant
	Counts        []int //cells per state, indexed by rules.State
	IterationTime time.Duration
	Err           error //the error that finished the simulation
}

//Frame is what a Viewer draws: the state before the next step and the status at that moment
type Frame struct {
	Snapshot
	Status Status
}

//Viewer is the interface to any Viewer - the object who can display simulation data or control the engine
//Refresh is called before each step, the frame is a copy and can be kept
type Viewer interface {
	Refresh(f Frame)
	Register(u Universe)
}

//The universe running status at the concrete moment
type RunningState int

//default options
const (
	DefRows    = 22
	DefColumns = 54
	DefFPS     = 24
)

const (
	RunningStateManual RunningState = iota
	RunningStateRun
	RunningStateFinished
)

func (s RunningState) String() string {
	switch s {
	case RunningStateManual:
		return "paused"
	case RunningStateRun:
		return "running"
	case RunningStateFinished:
		return "finished"
	}
	return "unknown"
}

var DefaultUniverseOptions = Options{
	Rows:    DefRows,
	Columns: DefColumns,
	FPS:     DefFPS,
}

//BaseUniverse is the base universe's engine
//implements Universe interface
//the engine is touched only under sim's lock, so a step never overlaps a snapshot, a reset or a manual flip
type BaseUniverse struct {
	options Options
	table   *rules.Table
	logger  *log.Logger
	ticker  *ticker.Ticker
	state   struct {
		Status
		sync.Mutex
	}
	sim struct {
		*Engine
		sync.Mutex
	}
	views []Viewer
}

//NewBaseUniverse creates the BaseUniverse instance
//nil options, table and logger fall back to the defaults, the classic rules and a discarding logger
func NewBaseUniverse(o *Options, table *rules.Table, logger *log.Logger, opts ...ticker.Option) (*BaseUniverse, error) {
	if o == nil {
		o = &DefaultUniverseOptions
	}
	if table == nil {
		table = rules.Classic()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	u := BaseUniverse{
		options: *o,
		table:   table,
		logger:  logger,
	}
	if u.options.Seed == 0 {
		u.options.Seed = rand.Uint64()
	}

	var err error
	if u.ticker, err = ticker.New(u.options.FPS, opts...); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewPCG(u.options.Seed, u.options.Seed))
	if u.sim.Engine, err = NewEngine(u.options.Rows, u.options.Columns, table, rng); err != nil {
		return nil, err
	}

	u.state.RunningMode = RunningStateRun
	u.updateStatus(0)
	u.logger.Info("universe created",
		"rows", u.options.Rows, "columns", u.options.Columns,
		"fps", u.options.FPS, "states", table.Len(), "seed", u.options.Seed,
		"ant", u.sim.Ant())
	return &u, nil
}

//RegisterViewer registers the viewer - the universe will call the viewer before every step
func (u *BaseUniverse) RegisterViewer(v Viewer) {
	u.views = append(u.views, v)
	v.Register(u)
}

//Status returns current universe status represented by Status struct
func (u *BaseUniverse) Status() Status {
	u.state.Lock()
	defer u.state.Unlock()
	st := u.state.Status
	st.Counts = append([]int(nil), st.Counts...)
	return st
}

//Options returns current universe configuration, Seed is the seed actually used
func (u *BaseUniverse) Options() Options {
	return u.options
}

func (u *BaseUniverse) Rules() *rules.Table {
	return u.table
}

//Snapshot returns a copy of the current state
func (u *BaseUniverse) Snapshot() Snapshot {
	u.sim.Lock()
	defer u.sim.Unlock()
	return u.sim.Snapshot()
}

//Run drives the simulation at the configured frame rate until ctx is cancelled,
//the step limit is reached (unless Options.Hold is set) or a step fails
//a paused or finished universe keeps the ticker running but neither draws nor steps
func (u *BaseUniverse) Run(ctx context.Context) error {
	if st := u.Status(); st.RunningMode == RunningStateFinished {
		return st.Err
	}
	u.logger.Info("simulation started", "interval", u.ticker.Interval())
	err := u.ticker.Run(ctx, u.tick)
	st := u.Status()
	u.logger.Info("simulation stopped", "iteration", st.IterationNum, "mode", st.RunningMode)
	return err
}

//Pause stops stepping, returns immediately
func (u *BaseUniverse) Pause() {
	if u.Status().RunningMode == RunningStateRun {
		u.switchRunningState(RunningStateManual)
	}
}

//Resume continues stepping after Pause
func (u *BaseUniverse) Resume() {
	if u.Status().RunningMode == RunningStateManual {
		u.switchRunningState(RunningStateRun)
	}
}

//Step draws the current state and does one simulation step, regardless of the running mode
func (u *BaseUniverse) Step() error {
	if err := u.step(false); err != nil && !errors.Is(err, ticker.ErrDone) {
		return err
	}
	return nil
}

//Reset clears the grid, places the ant anew and resets the counters
func (u *BaseUniverse) Reset() {
	u.sim.Lock()
	defer u.sim.Unlock()
	u.sim.Reset()
	u.state.Lock()
	u.state.Err = nil
	if u.state.RunningMode == RunningStateFinished {
		u.state.RunningMode = RunningStateManual
	}
	u.state.Unlock()
	u.updateStatus(0)
	u.logger.Info("universe reset", "ant", u.sim.Ant())
	u.refreshView()
}

//FlipCell flips the cell at row, column as if the ant had left it, without moving the ant
func (u *BaseUniverse) FlipCell(row int, column int) error {
	u.sim.Lock()
	defer u.sim.Unlock()
	if err := u.sim.FlipCell(row, column); err != nil {
		return err
	}
	u.updateStatus(u.Status().IterationTime)
	u.refreshView()
	return nil
}

func (u *BaseUniverse) tick(_ context.Context) error {
	err := u.step(true)
	if errors.Is(err, ticker.ErrDone) && u.options.Hold {
		return nil
	}
	return err
}

//step draws the state and advances it, in this order, so the frame N shows the state before the step N
//returns ticker.ErrDone once the step limit is reached
//a tick of a paused universe does nothing, the mode is checked under the sim lock so a Pause is never overtaken
func (u *BaseUniverse) step(tick bool) error {
	u.sim.Lock()
	defer u.sim.Unlock()

	st := u.Status()
	if st.RunningMode == RunningStateFinished {
		if st.Err != nil {
			return st.Err
		}
		return ticker.ErrDone
	}
	if tick && st.RunningMode == RunningStateManual {
		return nil
	}

	u.refreshView()
	start := time.Now()
	if err := u.sim.Step(); err != nil {
		u.logger.Error("simulation halted", "err", err)
		u.finish(err)
		return err
	}
	u.updateStatus(time.Since(start))
	u.logger.Debug("step", "iteration", u.sim.Steps(), "ant", u.sim.Ant())

	if maxIter := u.options.MaxSteps; maxIter > 0 && u.sim.Steps() >= maxIter {
		u.finish(nil)
		return ticker.ErrDone
	}
	return nil
}

//finish switches to the finished state and shows the final state once more
func (u *BaseUniverse) finish(err error) {
	u.state.Lock()
	u.state.Err = err
	u.state.Unlock()
	u.switchRunningState(RunningStateFinished)
	u.refreshView()
}

//switchRunningState switch the state of the universe to RunningState
func (u *BaseUniverse) switchRunningState(to RunningState) {
	u.state.Lock()
	from := u.state.RunningMode
	u.state.RunningMode = to
	u.state.Unlock()
	if from != to {
		u.logger.Debug("running state changed", "from", from, "to", to)
	}
}

//updateStatus copies the engine counters into the status, the caller holds the sim lock
func (u *BaseUniverse) updateStatus(iterationTime time.Duration) {
	u.state.Lock()
	defer u.state.Unlock()
	u.state.IterationNum = u.sim.Steps()
	u.state.Ant = u.sim.Ant()
	u.state.Counts = u.sim.Counts()
	u.state.IterationTime = iterationTime
}

//refreshView calls Refresh event for all registered views, the caller holds the sim lock
func (u *BaseUniverse) refreshView() {
	if len(u.views) == 0 {
		return
	}
	f := Frame{Snapshot: u.sim.Snapshot(), Status: u.Status()}
	for _, v := range u.views {
		v.Refresh(f)
	}
}
