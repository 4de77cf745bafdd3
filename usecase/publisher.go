package usecase

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	globalConfig "github.com/AzielCF/az-xpost/config"
	domainPublish "github.com/AzielCF/az-xpost/domains/publish"
	pkgError "github.com/AzielCF/az-xpost/pkg/error"
	pkgUtils "github.com/AzielCF/az-xpost/pkg/utils"
	"github.com/AzielCF/az-xpost/validations"
	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	_ "golang.org/x/image/webp" // registers the WebP decoder used by imaging.Decode
)

// Seams for tests; swapped to avoid real downloads and real waits.
var (
	downloadImageFn = pkgUtils.DownloadImageFromURL
	sleepFn         = time.Sleep
)

type servicePublisher struct {
	client     domainPublish.IPostingClient
	replyDelay time.Duration
}

func NewPublishService(client domainPublish.IPostingClient, replyDelay time.Duration) domainPublish.IPublishUsecase {
	return &servicePublisher{
		client:     client,
		replyDelay: replyDelay,
	}
}

// Publish runs the thread machine for one row: media (degradable), parent
// (mandatory), then up to two replies with an unconditional delay before
// each. Each reply targets the last post actually created, so reply2 chains
// to the parent when reply1 was skipped for empty text. A failing reply
// halts the machine without touching what is already published; the
// platform has no multi-post transaction, so there is nothing to roll back.
func (service servicePublisher) Publish(ctx context.Context, request domainPublish.ThreadRequest) domainPublish.Outcome {
	outcome := domainPublish.Outcome{
		Status:   domainPublish.StatusPublished,
		State:    domainPublish.StateNotStarted,
		RowIndex: request.RowIndex,
	}

	if err := validations.ValidatePublishThread(ctx, request); err != nil {
		outcome.Status = domainPublish.StatusHardFailure
		outcome.State = domainPublish.StateFailed
		outcome.Err = err
		return outcome
	}

	// Media step: a failure here degrades to a text-only parent. Posting
	// something beats posting nothing, but the caller still sees it.
	var mediaIDs []string
	if strings.TrimSpace(request.ImageURL) != "" {
		mediaID, err := service.prepareMedia(ctx, request.ImageURL)
		outcome.State = domainPublish.StateMediaAttempted
		if err != nil {
			logrus.WithError(err).WithField("row", request.RowIndex).Warn("[PUBLISH] Media step failed, posting parent text-only")
			outcome.MediaDegraded = true
		} else {
			mediaIDs = append(mediaIDs, mediaID)
		}
	}

	// Parent step: terminal on failure, no replies without a thread root.
	parentID, err := service.client.CreatePost(ctx, request.ParentText, mediaIDs)
	if err != nil {
		return service.fail(outcome, domainPublish.StepParent, err)
	}
	outcome.ParentID = parentID
	outcome.State = domainPublish.StateParentPosted
	logrus.WithFields(logrus.Fields{
		"row":     request.RowIndex,
		"post_id": parentID,
	}).Info("[PUBLISH] Parent post created")

	lastID := parentID

	if text := strings.TrimSpace(request.Reply1Text); text != "" {
		sleepFn(service.replyDelay)
		replyID, err := service.client.CreateReply(ctx, text, lastID)
		if err != nil {
			return service.fail(outcome, domainPublish.StepReply1, err)
		}
		outcome.Reply1ID = replyID
		outcome.State = domainPublish.StateReply1Posted
		lastID = replyID
		logrus.WithFields(logrus.Fields{"row": request.RowIndex, "post_id": replyID}).Info("[PUBLISH] Reply 1 created")
	}

	if text := strings.TrimSpace(request.Reply2Text); text != "" {
		sleepFn(service.replyDelay)
		replyID, err := service.client.CreateReply(ctx, text, lastID)
		if err != nil {
			return service.fail(outcome, domainPublish.StepReply2, err)
		}
		outcome.Reply2ID = replyID
		outcome.State = domainPublish.StateReply2Posted
		logrus.WithFields(logrus.Fields{"row": request.RowIndex, "post_id": replyID}).Info("[PUBLISH] Reply 2 created")
	}

	return outcome
}

// fail records the failing step and halts the machine. Posts created before
// the failure stay published and stay in the outcome.
func (service servicePublisher) fail(outcome domainPublish.Outcome, step domainPublish.Step, err error) domainPublish.Outcome {
	outcome.Status = domainPublish.StatusPartialFailure
	outcome.State = domainPublish.StateFailed
	outcome.FailedStep = step
	outcome.Err = err
	logrus.WithError(err).WithFields(logrus.Fields{
		"row":  outcome.RowIndex,
		"step": string(step),
	}).Error("[PUBLISH] Thread halted")
	return outcome
}

// prepareMedia downloads the row image, converts WebP to PNG, stages the
// bytes under the send-items folder and uploads them. The staged file is a
// transient resource, removed before this returns whether or not the upload
// succeeded; the process exits right after the run, so nothing deferred to
// a background goroutine would ever fire.
func (service servicePublisher) prepareMedia(ctx context.Context, imageURL string) (string, error) {
	imageData, fileName, err := downloadImageFn(imageURL)
	if err != nil {
		return "", pkgError.FetchError(fmt.Sprintf("failed to download image: %v", err))
	}

	if http.DetectContentType(imageData) == "image/webp" {
		webpImage, err := imaging.Decode(bytes.NewReader(imageData))
		if err != nil {
			return "", pkgError.PublishError(fmt.Sprintf("failed to decode WebP image: %v", err))
		}

		if strings.HasSuffix(strings.ToLower(fileName), ".webp") {
			fileName = fileName[:len(fileName)-5] + ".png"
		} else {
			fileName = fileName + ".png"
		}

		var pngBuffer bytes.Buffer
		if err := imaging.Encode(&pngBuffer, webpImage, imaging.PNG); err != nil {
			return "", pkgError.PublishError(fmt.Sprintf("failed to convert WebP to PNG: %v", err))
		}
		imageData = pngBuffer.Bytes()
	}

	stagedPath := filepath.Join(globalConfig.PathSendItems, fileName)
	if err := os.WriteFile(stagedPath, imageData, 0644); err != nil {
		logrus.WithError(err).Warn("[PUBLISH] Failed to stage image file")
	} else {
		defer func() {
			_ = pkgUtils.RemoveFile(0, stagedPath)
		}()
	}

	mediaID, err := service.client.UploadMedia(ctx, imageData, fileName)
	if err != nil {
		return "", err
	}

	logrus.WithFields(logrus.Fields{
		"media_id": mediaID,
		"size":     humanize.Bytes(uint64(len(imageData))),
	}).Info("[PUBLISH] Media uploaded")
	return mediaID, nil
}
