package view

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/logrusorgru/aurora"

	"langton/src/rules"
	"langton/src/universe"
)

type keyBindings struct {
	key      interface{}
	name     string
	descr    string
	handler  func(v *gocui.View) error
	viewName string
}

//ConsoleUI is the interactive terminal view, it also controls the universe with the keyboard and the mouse
type ConsoleUI struct {
	u         universe.Universe
	g         *gocui.Gui
	k         []keyBindings
	painter   *Painter
	rulesName string

	//update queues a redraw on the UI goroutine, gocui runs queued updates in no particular order
	update func(func(*gocui.Gui) error)
	render func(g *gocui.Gui, f universe.Frame)

	mu   sync.Mutex
	last *universe.Frame
}

var (
	runningStateDescr = map[universe.RunningState]string{
		universe.RunningStateManual:   aurora.Colorize("paused", aurora.BlueFg).String(),
		universe.RunningStateRun:      aurora.Colorize("running", aurora.CyanFg).String(),
		universe.RunningStateFinished: aurora.Colorize("finished", aurora.RedFg).String(),
	}
)

const (
	headerText = "Langton's Ant"
	gridView   = "grid"
)

//NewViewTerminal takes over the terminal
//rulesName is shown in the configuration panel
func NewViewTerminal(painter *Painter, rulesName string) (*ConsoleUI, error) {
	var err error
	t := ConsoleUI{
		painter:   painter,
		rulesName: rulesName,
	}

	if t.g, err = gocui.NewGui(gocui.OutputNormal); err != nil {
		return nil, err
	}

	t.g.Mouse = true
	t.update = t.g.Update
	t.render = t.renderFrame
	t.k = []keyBindings{
		{gocui.KeyCtrlC,
			"^C",
			"Exit",
			t.cmdQuit,
			""},
		{'n',
			"N",
			"Next step",
			t.cmdNextStep,
			""},
		{'r',
			"R",
			"Run",
			t.cmdRun,
			""},
		{'s',
			"S",
			"Stop",
			t.cmdStop,
			""},
		{'c',
			"C",
			"Reset",
			t.cmdReset,
			""},
		{gocui.MouseLeft,
			"MOUSE",
			"Flip the cell",
			t.cmdMouseClick,
			gridView},
	}
	t.g.SetManagerFunc(t.layout)

	if err = t.initKeyBindings(t.k); err != nil {
		t.g.Close()
		return nil, err
	}
	return &t, nil
}

func (t *ConsoleUI) initKeyBindings(k []keyBindings) error {
	for _, kb := range k {
		h := kb.handler
		if err := t.g.SetKeybinding(kb.viewName, kb.key, gocui.ModNone, func(gui *gocui.Gui, view *gocui.View) error { return h(view) }); err != nil {
			return err
		}
	}
	return nil
}

func (t *ConsoleUI) Register(u universe.Universe) {
	t.u = u
}

//Start runs the UI main loop until the user quits, an action fails or ctx is cancelled
//the terminal is restored on return
func (t *ConsoleUI) Start(ctx context.Context) error {
	defer t.g.Close()
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			t.g.Update(func(*gocui.Gui) error { return gocui.ErrQuit })
		case <-done:
		}
	}()
	if err := t.g.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}
	return nil
}

//Refresh is called from the simulation goroutine, the drawing happens in the UI goroutine
//every queued redraw draws the latest frame, so a late update never brings an older frame back
func (t *ConsoleUI) Refresh(f universe.Frame) {
	t.mu.Lock()
	t.last = &f
	t.mu.Unlock()
	t.update(t.redraw)
}

func (t *ConsoleUI) redraw(g *gocui.Gui) error {
	t.render(g, t.lastFrame())
	return nil
}

func (t *ConsoleUI) renderFrame(g *gocui.Gui, f universe.Frame) {
	if v, err := g.View(gridView); err == nil {
		t.renderField(v, f.Snapshot)
	}
	if v, err := g.View("status"); err == nil {
		t.renderStatus(v, f.Status)
	}
}

//lastFrame returns the latest frame, the current state is used before the first refresh
func (t *ConsoleUI) lastFrame() universe.Frame {
	t.mu.Lock()
	last := t.last
	t.mu.Unlock()
	//not under mu: the universe holds its own lock while calling Refresh
	if last == nil {
		return universe.Frame{Snapshot: t.u.Snapshot(), Status: t.u.Status()}
	}
	return *last
}

func (t *ConsoleUI) renderField(v *gocui.View, s universe.Snapshot) {
	//the entire field is redrawing at once
	v.Clear()

	maxW, maxH := v.Size()
	cw := t.painter.CellWidth()
	rows, columns := maxH, maxW/cw
	if s.Rows > rows || s.Columns > columns {
		//keep the last line for the warning
		rows--
	}
	if rows < 1 || columns < 1 {
		return
	}

	var b bytes.Buffer
	if t.painter.Paint(&b, s, rows, columns) {
		b.WriteString(aurora.Red("The grid is larger than the viewing area").BgBlack().String())
	}
	_, _ = fmt.Fprint(v, b.String())
}

func (t *ConsoleUI) renderStatus(v *gocui.View, s universe.Status) {
	v.Clear()
	table := t.u.Rules()
	_, _ = fmt.Fprintln(v, t.renderProp("Step", "%v", s.IterationNum))
	_, _ = fmt.Fprintln(v, t.renderProp("Ant", "%v, %v", s.Ant.Row, s.Ant.Column))
	_, _ = fmt.Fprintln(v, t.renderProp("Heading", "%v", s.Ant.Heading))
	for i, n := range s.Counts {
		r, _ := table.Lookup(rules.State(i))
		_, _ = fmt.Fprintln(v, t.renderProp(table.Name(rules.State(i)), "%v %v", r.Symbol, n))
	}
	_, _ = fmt.Fprintln(v, t.renderProp("Step time", "%v", s.IterationTime.Round(time.Microsecond)))
	_, _ = fmt.Fprintln(v, t.renderProp("Mode", "%v", runningStateDescr[s.RunningMode]))
	if s.Err != nil {
		_, _ = fmt.Fprintln(v, aurora.Red(s.Err.Error()).String())
	}
}

func (t *ConsoleUI) renderConfiguration(v *gocui.View) {
	v.Clear()
	c := t.u.Options()
	maxSteps := "unlimited"
	if c.MaxSteps > 0 {
		maxSteps = fmt.Sprintf("%v steps", c.MaxSteps)
	}
	_, _ = fmt.Fprintln(v, t.renderProp("Dimension", "%v x %v", c.Rows, c.Columns))
	_, _ = fmt.Fprintln(v, t.renderProp("Frame rate", "%v fps", c.FPS))
	_, _ = fmt.Fprintln(v, t.renderProp("Iterations", "%v", maxSteps))
	_, _ = fmt.Fprintln(v, t.renderProp("Seed", "%v", c.Seed))
	_, _ = fmt.Fprintln(v, t.renderProp("Rules", "%v", t.rulesName))
	_, _ = fmt.Fprintln(v, t.renderProp("States", "%v", strings.Join(t.u.Rules().Names(), ", ")))
}

func (t *ConsoleUI) renderProp(name string, valueformat string, values ...interface{}) string {
	return fmt.Sprintf(" "+aurora.Colorize(name, aurora.GreenFg).String()+": "+valueformat, values...)
}

func (t *ConsoleUI) layout(g *gocui.Gui) error {

	maxX, maxY := g.Size()
	leftColumnWidth := 28
	minWindowHeight := 20

	if maxY < minWindowHeight {
		if _, err := t.headerLayout(g, maxY, "Terminal height too small"); err != nil {
			if err != gocui.ErrUnknownView {
				return err
			}
		}
		_ = g.DeleteView("configuration")
		_ = g.DeleteView("status")
		_ = g.DeleteView(gridView)
		return nil
	}

	if _, err := t.headerLayout(g, 3, headerText); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
	}

	if v, err := g.SetView("configuration", 0, 3, leftColumnWidth, 3+(maxY-5-3)/2); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Configuration"
		v.Frame = true
		t.renderConfiguration(v)
	}

	if v, err := g.SetView("status", 0, 3+(maxY-5-3)/2+1, leftColumnWidth, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Status"
		v.Frame = true
		t.renderStatus(v, t.lastFrame().Status)
	}

	if v, err := g.SetView(gridView, leftColumnWidth+1, 3, maxX-1, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Grid"
		v.Frame = true
		t.renderField(v, t.lastFrame().Snapshot)
	}

	if v, err := g.SetView("help", -1, maxY-5, maxX, maxY-3); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Frame = false
		b := bytes.Buffer{}
		b.WriteString("KEYBINDINGS: ")
		for i, k := range t.k {
			if i != 0 {
				b.WriteString(", ")
			}
			b.WriteString(aurora.Green(k.name).String())
			b.WriteString(": ")
			b.WriteString(k.descr)
		}
		_, _ = fmt.Fprintln(v, b.String())
	}

	return nil
}

func (t *ConsoleUI) headerLayout(g *gocui.Gui, height int, text string) (v *gocui.View, err error) {
	maxX, _ := g.Size()
	if v, err = g.SetView("header", -1, -1, maxX+1, height); err != nil {
		if err == gocui.ErrUnknownView && v != nil {
			v.Frame = false
			v.BgColor = gocui.ColorCyan
			v.FgColor = gocui.ColorBlack
		}
	}
	if v != nil {
		v.Clear()
		indent := 0
		if maxX > len(text) {
			indent = (maxX - len(text)) / 2
		}
		_, _ = fmt.Fprintln(v, strings.Repeat("\n", height/2)+strings.Repeat(" ", indent)+text)
	}
	return
}

func (t *ConsoleUI) cmdQuit(_ *gocui.View) error {
	return gocui.ErrQuit
}

func (t *ConsoleUI) cmdNextStep(_ *gocui.View) error {
	return t.u.Step()
}

func (t *ConsoleUI) cmdRun(_ *gocui.View) error {
	t.u.Resume()
	t.refreshStatus()
	return nil
}

func (t *ConsoleUI) cmdStop(_ *gocui.View) error {
	t.u.Pause()
	t.refreshStatus()
	return nil
}

func (t *ConsoleUI) cmdReset(_ *gocui.View) error {
	t.u.Reset()
	return nil
}

func (t *ConsoleUI) cmdMouseClick(v *gocui.View) error {
	cx, cy := v.Cursor()
	row, column := cy, cx/t.painter.CellWidth()
	if o := t.u.Options(); row >= o.Rows || column >= o.Columns {
		return nil
	}
	return t.u.FlipCell(row, column)
}

//refreshStatus redraws the status panel after a mode change, the grid is unchanged
func (t *ConsoleUI) refreshStatus() {
	if v, err := t.g.View("status"); err == nil {
		t.renderStatus(v, t.u.Status())
	}
}
