package recorder

import "ForexSentry/internal/model"

// RunRecord captures one analysis cycle: the macro baseline that framed it
// and how the calendar and pair processing went.
type RunRecord struct {
	USDStance     string
	RiskRegime    string
	Notes         string
	EventsTotal   int
	EventsDropped int
	PairsOK       int
	PairsFailed   int
}

// Recorder persists cycle history for later inspection. Computation never
// reads it back: every cycle recomputes from scratch.
type Recorder interface {
	RecordRun(rec *RunRecord) error
	RecordSnapshot(snap *model.TechnicalSnapshot) error
	Close() error
}
