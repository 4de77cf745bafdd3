package schedule

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// WindowPolicy decides how the eligibility window treats rows scheduled in
// the future relative to "now".
type WindowPolicy string

const (
	// WindowPolicySymmetric accepts rows within ±window of now. Use when the
	// runner cadence may drift in either direction.
	WindowPolicySymmetric WindowPolicy = "symmetric"
	// WindowPolicyForward accepts rows scheduled at or before now only,
	// never ahead of schedule.
	WindowPolicyForward WindowPolicy = "forward"
)

func (p WindowPolicy) Valid() bool {
	return p == WindowPolicySymmetric || p == WindowPolicyForward
}

// Row is one planned post read from the schedule sheet. Rows are rebuilt
// from the source on every run and carry no identity beyond their position.
type Row struct {
	Index       int    // 1-based position in the sheet, header excluded
	ScheduledAt string // raw cell value; parsed by the selector
	ParentText  string
	Reply1Text  string
	Reply2Text  string
	ImageURL    string
	PostedFlag  string // human-maintained marker, advisory only
}

// MarkedPosted reports whether the human-maintained posted column flags this
// row as already published.
func (r Row) MarkedPosted() bool {
	return strings.EqualFold(strings.TrimSpace(r.PostedFlag), "yes")
}

// MarkerKey identifies a row across runs for the optional marker store.
// Row indexes shift when the sheet is reordered, so the scheduled time is
// part of the key.
func MarkerKey(r Row) string {
	return fmt.Sprintf("%d|%s", r.Index, strings.TrimSpace(r.ScheduledAt))
}

// ISheetSource supplies the ordered schedule rows from the export endpoint.
type ISheetSource interface {
	FetchRows(ctx context.Context) ([]Row, error)
}

// ISelectorUsecase picks the single row eligible for publication this run.
type ISelectorUsecase interface {
	SelectDueRow(rows []Row, now time.Time) *Row
}

// IMarkerStore records rows already published by previous runs. The sheet is
// read-only to this system, so its posted column alone cannot provide
// at-most-once delivery; deployments that need duplicate-post prevention
// supply a marker store, everything else runs without one.
type IMarkerStore interface {
	IsPosted(ctx context.Context, key string) (bool, error)
	MarkPosted(ctx context.Context, key string, parentID string) error
	Close() error
}
