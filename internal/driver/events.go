package driver

import "time"

// Stage describes a step of the per-file pipeline.
type Stage string

const (
	StageLoad   Stage = "load"
	StageLex    Stage = "lex"
	StageParse  Stage = "parse"
	StageFormat Stage = "format" // round trip through the pretty printer
	StageRun    Stage = "run"
)

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for a file (or for the whole check when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// emit is a no-op without a listener.
func emit(ch chan<- Event, ev Event) {
	if ch == nil {
		return
	}
	ch <- ev
}
