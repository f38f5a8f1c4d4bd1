package universe

import (
	"context"
	"math/rand/v2"
	"testing"

	"langton/src/rules"
)

var (
	llrr = `{
		"default": "a",
		"a": {"turn": "left", "flip": "b", "symbol": " "},
		"b": {"turn": "left", "flip": "c", "symbol": "."},
		"c": {"turn": "right", "flip": "d", "symbol": "+"},
		"d": {"turn": "right", "flip": "a", "symbol": "#"}
	}`

	tables = map[string]func(b *testing.B) *rules.Table{
		"classic": func(b *testing.B) *rules.Table { return rules.Classic() },
		"llrr": func(b *testing.B) *rules.Table {
			t, err := rules.Parse([]byte(llrr))
			if err != nil {
				b.Fatal(err)
			}
			return t
		},
	}
)

const (
	rows    = 200
	columns = 200
)

type discardViewer struct{}

func (discardViewer) Refresh(Frame)     {}
func (discardViewer) Register(Universe) {}

func engineStep(e *Engine, b *testing.B) {
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := e.Step(); err != nil {
			b.Fatal(err)
		}
	}
}

func universeStep(u Universe, b *testing.B) {
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := u.Step(); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_Step(b *testing.B) {
	for name, table := range tables {
		b.Run(name, func(b *testing.B) {
			e, err := NewEngine(rows, columns, table(b), rand.New(rand.NewPCG(1, 0)))
			if err != nil {
				b.Fatal(err)
			}
			engineStep(e, b)
		})
	}
}

//Benchmark_Universe includes the snapshot copied for the viewer on every step
func Benchmark_Universe(b *testing.B) {
	for name, table := range tables {
		b.Run(name, func(b *testing.B) {
			o := Options{Rows: rows, Columns: columns, FPS: 1, Seed: 1}
			u, err := NewBaseUniverse(&o, table(b), nil)
			if err != nil {
				b.Fatal(err)
			}
			u.RegisterViewer(discardViewer{})
			universeStep(u, b)
		})
	}
}

func Benchmark_Run(b *testing.B) {
	o := Options{Rows: rows, Columns: columns, FPS: 1_000_000_000, Seed: 1}
	for i := 0; i < b.N; i++ {
		o.MaxSteps = 1000
		u, err := NewBaseUniverse(&o, nil, nil)
		if err != nil {
			b.Fatal(err)
		}
		if err := u.Run(context.Background()); err != nil {
			b.Fatal(err)
		}
	}
}
