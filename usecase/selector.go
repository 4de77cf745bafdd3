package usecase

import (
	"time"

	domainSchedule "github.com/AzielCF/az-xpost/domains/schedule"
	"github.com/AzielCF/az-xpost/pkg/timeutils"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
)

type serviceSelector struct {
	window time.Duration
	policy domainSchedule.WindowPolicy
	loc    *time.Location
}

func NewSelectorService(window time.Duration, policy domainSchedule.WindowPolicy, loc *time.Location) domainSchedule.ISelectorUsecase {
	return &serviceSelector{
		window: window,
		policy: policy,
		loc:    loc,
	}
}

// SelectDueRow scans rows in source order and returns the first eligible
// one, or nil when nothing is due. Scanning stops at the first hit: earlier
// rows win when several are due at once, and a run never takes more than
// one row. Rows flagged posted, rows without parent text and rows whose
// schedule cell parses under neither accepted layout are skipped, never an
// error.
func (service serviceSelector) SelectDueRow(rows []domainSchedule.Row, now time.Time) *domainSchedule.Row {
	now = now.In(service.loc)

	for i := range rows {
		row := rows[i]

		if row.MarkedPosted() {
			continue
		}
		if row.ParentText == "" {
			logrus.WithField("row", row.Index).Debug("[SELECTOR] Skipping row without parent text")
			continue
		}

		scheduled, err := timeutils.ParseScheduleTime(row.ScheduledAt, service.loc)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"row":   row.Index,
				"value": row.ScheduledAt,
			}).Debug("[SELECTOR] Skipping row with unparsable schedule time")
			continue
		}

		if !service.inWindow(now.Sub(scheduled)) {
			continue
		}

		logrus.WithFields(logrus.Fields{
			"row":           row.Index,
			"scheduled_for": humanize.Time(scheduled),
		}).Info("[SELECTOR] Row is due")
		return &row
	}

	return nil
}

// inWindow applies the configured eligibility policy to diff = now - scheduledAt.
func (service serviceSelector) inWindow(diff time.Duration) bool {
	switch service.policy {
	case domainSchedule.WindowPolicyForward:
		return diff >= 0 && diff <= service.window
	default: // symmetric
		if diff < 0 {
			diff = -diff
		}
		return diff <= service.window
	}
}
