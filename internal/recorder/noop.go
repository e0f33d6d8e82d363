package recorder

import "OilLens/internal/model"

// NoopRecorder discards everything. It stands in when no database path is
// configured or the database fails to open.
type NoopRecorder struct{}

var _ Recorder = NoopRecorder{}

func NewNoopRecorder() NoopRecorder { return NoopRecorder{} }

func (NoopRecorder) RecordLoad(*LoadEvent) error             { return nil }
func (NoopRecorder) RecordQuote(*model.Quote) error          { return nil }
func (NoopRecorder) RecordView(*ViewRequest) error           { return nil }
func (NoopRecorder) RecentQuotes(int) ([]model.Quote, error) { return nil, nil }
func (NoopRecorder) Close() error                            { return nil }
