package usecase

import (
	"testing"
	"time"

	domainSchedule "github.com/AzielCF/az-xpost/domains/schedule"
	"github.com/AzielCF/az-xpost/pkg/timeutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func newTestSelector(policy domainSchedule.WindowPolicy, window time.Duration) domainSchedule.ISelectorUsecase {
	return NewSelectorService(window, policy, time.UTC)
}

func cell(at time.Time) string {
	return at.Format(timeutils.LayoutDash)
}

func TestSelectDueRow_SkipsPostedFlag(t *testing.T) {
	selector := newTestSelector(domainSchedule.WindowPolicySymmetric, 30*time.Minute)

	for _, flag := range []string{"yes", "Yes", "YES", " yes "} {
		rows := []domainSchedule.Row{
			{Index: 1, ScheduledAt: cell(testNow), ParentText: "Hello", PostedFlag: flag},
		}
		assert.Nilf(t, selector.SelectDueRow(rows, testNow), "flag %q must never select", flag)
	}
}

func TestSelectDueRow_SkipsUnparsableDates(t *testing.T) {
	selector := newTestSelector(domainSchedule.WindowPolicySymmetric, 30*time.Minute)

	rows := []domainSchedule.Row{
		{Index: 1, ScheduledAt: "", ParentText: "A", PostedFlag: "no"},
		{Index: 2, ScheduledAt: "tomorrow", ParentText: "B", PostedFlag: "no"},
		{Index: 3, ScheduledAt: "2025-03-14", ParentText: "C", PostedFlag: "no"},
	}
	assert.Nil(t, selector.SelectDueRow(rows, testNow))
}

func TestSelectDueRow_SkipsRowsWithoutParentText(t *testing.T) {
	selector := newTestSelector(domainSchedule.WindowPolicySymmetric, 30*time.Minute)

	rows := []domainSchedule.Row{
		{Index: 1, ScheduledAt: cell(testNow), ParentText: "", PostedFlag: "no"},
		{Index: 2, ScheduledAt: cell(testNow), ParentText: "Second", PostedFlag: "no"},
	}
	got := selector.SelectDueRow(rows, testNow)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.Index)
}

func TestSelectDueRow_EarlierRowWins(t *testing.T) {
	selector := newTestSelector(domainSchedule.WindowPolicySymmetric, 30*time.Minute)

	rows := []domainSchedule.Row{
		{Index: 1, ScheduledAt: cell(testNow.Add(-2 * time.Minute)), ParentText: "First", PostedFlag: "no"},
		{Index: 2, ScheduledAt: cell(testNow.Add(-1 * time.Minute)), ParentText: "Second", PostedFlag: "no"},
	}
	got := selector.SelectDueRow(rows, testNow)
	require.NotNil(t, got)
	assert.Equal(t, 1, got.Index)
	assert.Equal(t, "First", got.ParentText)
}

func TestSelectDueRow_SymmetricWindowBounds(t *testing.T) {
	window := 30 * time.Minute
	selector := newTestSelector(domainSchedule.WindowPolicySymmetric, window)

	cases := []struct {
		name      string
		scheduled time.Time
		selected  bool
	}{
		{"just outside late edge", testNow.Add(-window - time.Second), false},
		{"just inside late edge", testNow.Add(-window + time.Second), true},
		{"just inside early edge", testNow.Add(window - time.Second), true},
		{"just outside early edge", testNow.Add(window + time.Second), false},
		{"exactly now", testNow, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rows := []domainSchedule.Row{
				{Index: 1, ScheduledAt: cell(c.scheduled), ParentText: "Hello", PostedFlag: "no"},
			}
			got := selector.SelectDueRow(rows, testNow)
			if c.selected {
				assert.NotNil(t, got)
			} else {
				assert.Nil(t, got)
			}
		})
	}
}

func TestSelectDueRow_ForwardWindowNeverSelectsFuture(t *testing.T) {
	selector := newTestSelector(domainSchedule.WindowPolicyForward, 30*time.Minute)

	future := []domainSchedule.Row{
		{Index: 1, ScheduledAt: cell(testNow.Add(time.Second)), ParentText: "Early", PostedFlag: "no"},
	}
	assert.Nil(t, selector.SelectDueRow(future, testNow))

	onTime := []domainSchedule.Row{
		{Index: 1, ScheduledAt: cell(testNow), ParentText: "On time", PostedFlag: "no"},
	}
	got := selector.SelectDueRow(onTime, testNow)
	require.NotNil(t, got)
	assert.Equal(t, "On time", got.ParentText)

	late := []domainSchedule.Row{
		{Index: 1, ScheduledAt: cell(testNow.Add(-29 * time.Minute)), ParentText: "Late", PostedFlag: "no"},
	}
	assert.NotNil(t, selector.SelectDueRow(late, testNow))
}

func TestSelectDueRow_AcceptsSlashLayout(t *testing.T) {
	selector := newTestSelector(domainSchedule.WindowPolicySymmetric, 30*time.Minute)

	rows := []domainSchedule.Row{
		{Index: 1, ScheduledAt: testNow.Format(timeutils.LayoutSlash), ParentText: "Hello", PostedFlag: "no"},
	}
	assert.NotNil(t, selector.SelectDueRow(rows, testNow))
}

func TestSelectDueRow_FixedOffsetInterpretation(t *testing.T) {
	// Cells are naive +09:00 times; a run whose clock reads 03:00 UTC must
	// treat a "12:00" cell as due.
	loc := timeutils.FixedOffsetLocation(540)
	selector := NewSelectorService(30*time.Minute, domainSchedule.WindowPolicySymmetric, loc)

	rows := []domainSchedule.Row{
		{Index: 1, ScheduledAt: "2025-03-14 12:00", ParentText: "Hello", PostedFlag: "no"},
	}
	nowUTC := time.Date(2025, 3, 14, 3, 0, 0, 0, time.UTC)
	assert.NotNil(t, selector.SelectDueRow(rows, nowUTC))
}
