package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	domainNotify "github.com/AzielCF/az-xpost/domains/notify"
	domainPublish "github.com/AzielCF/az-xpost/domains/publish"
	domainSchedule "github.com/AzielCF/az-xpost/domains/schedule"
	"github.com/sirupsen/logrus"
)

type serviceRun struct {
	source    domainSchedule.ISheetSource
	selector  domainSchedule.ISelectorUsecase
	publisher domainPublish.IPublishUsecase
	notifier  domainNotify.INotifyUsecase
	marker    domainSchedule.IMarkerStore // nil when the deployment runs without one
	nowFn     func() time.Time
}

func NewRunService(
	source domainSchedule.ISheetSource,
	selector domainSchedule.ISelectorUsecase,
	publisher domainPublish.IPublishUsecase,
	notifier domainNotify.INotifyUsecase,
	marker domainSchedule.IMarkerStore,
) *serviceRun {
	return &serviceRun{
		source:    source,
		selector:  selector,
		publisher: publisher,
		notifier:  notifier,
		marker:    marker,
		nowFn:     time.Now,
	}
}

// Run executes one scheduling pass: fetch, select at most one due row,
// publish it, report. It never loops back for a second row in the same
// invocation; the external trigger provides the cadence.
func (service *serviceRun) Run(ctx context.Context) domainPublish.Outcome {
	now := service.nowFn()
	logrus.WithField("now", now.Format(time.RFC3339)).Info("[RUN] Checking schedule")

	rows, err := service.source.FetchRows(ctx)
	if err != nil {
		outcome := domainPublish.Outcome{
			Status: domainPublish.StatusHardFailure,
			Err:    err,
		}
		logrus.WithError(err).Error("[RUN] Failed to fetch schedule")
		service.report(ctx, outcome)
		return outcome
	}
	logrus.Infof("[RUN] Fetched %d schedule row(s)", len(rows))

	row := service.selector.SelectDueRow(rows, now)
	if row == nil {
		outcome := domainPublish.Outcome{Status: domainPublish.StatusNoEligibleRow}
		logrus.Info("[RUN] No row due this run")
		service.report(ctx, outcome)
		return outcome
	}

	if service.marker != nil {
		key := domainSchedule.MarkerKey(*row)
		posted, err := service.marker.IsPosted(ctx, key)
		if err != nil {
			logrus.WithError(err).Warn("[RUN] Marker store lookup failed, continuing without it")
		} else if posted {
			// A previous run already published this row; the sheet's posted
			// column just has not been flipped yet. One row per run, so the
			// pass ends here rather than reconsidering later rows.
			logrus.WithField("row", row.Index).Info("[RUN] Row already published per local marker")
			outcome := domainPublish.Outcome{
				Status:   domainPublish.StatusNoEligibleRow,
				RowIndex: row.Index,
			}
			service.report(ctx, outcome)
			return outcome
		}
	}

	outcome := service.publisher.Publish(ctx, domainPublish.ThreadRequest{
		RowIndex:   row.Index,
		ParentText: row.ParentText,
		Reply1Text: row.Reply1Text,
		Reply2Text: row.Reply2Text,
		ImageURL:   row.ImageURL,
	})

	// Any parent that went out is worth remembering, a partial thread must
	// not be re-posted from scratch by the next run either.
	if service.marker != nil && outcome.ParentID != "" {
		if err := service.marker.MarkPosted(ctx, domainSchedule.MarkerKey(*row), outcome.ParentID); err != nil {
			logrus.WithError(err).Warn("[RUN] Failed to record posted marker")
		}
	}

	service.report(ctx, outcome)
	return outcome
}

func (service *serviceRun) report(ctx context.Context, outcome domainPublish.Outcome) {
	if service.notifier == nil {
		return
	}
	message, isError := FormatOutcome(outcome)
	service.notifier.Notify(ctx, message, isError)
}

// FormatOutcome renders an outcome as the operator-channel message. Partial
// failures name the completed post IDs and the failed step so a human can
// continue the thread manually.
func FormatOutcome(outcome domainPublish.Outcome) (string, bool) {
	switch outcome.Status {
	case domainPublish.StatusNoEligibleRow:
		if outcome.RowIndex > 0 {
			return fmt.Sprintf("Row %d is due but already published per local marker; nothing posted.", outcome.RowIndex), false
		}
		return "No schedule row due this run.", false

	case domainPublish.StatusPublished:
		message := fmt.Sprintf("Published row %d: parent %s", outcome.RowIndex, outcome.ParentID)
		if outcome.Reply1ID != "" {
			message += ", reply1 " + outcome.Reply1ID
		}
		if outcome.Reply2ID != "" {
			message += ", reply2 " + outcome.Reply2ID
		}
		if outcome.MediaDegraded {
			message += " (image failed, posted text-only)"
		}
		message += ". Remember to flip the posted column in the sheet."
		return message, outcome.MediaDegraded

	case domainPublish.StatusPartialFailure:
		completed := strings.Join(outcome.CompletedIDs(), ", ")
		if completed == "" {
			completed = "none"
		}
		return fmt.Sprintf("Publish of row %d halted at step %s: %v. Completed posts: %s.",
			outcome.RowIndex, outcome.FailedStep, outcome.Err, completed), true

	default: // StatusHardFailure
		return fmt.Sprintf("Run failed before publishing anything: %v", outcome.Err), true
	}
}
