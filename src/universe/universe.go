package universe

import (
	"context"

	"langton/src/rules"
)

type Universe interface {
	Status() Status
	Options() Options
	Rules() *rules.Table
	Snapshot() Snapshot
	RegisterViewer(v Viewer)
	Run(ctx context.Context) error
	Pause()
	Resume()
	Step() error
	Reset()
	FlipCell(row int, column int) error
}
