package publish

import "context"

// State names one position of the thread publication machine.
type State string

const (
	StateNotStarted     State = "not_started"
	StateMediaAttempted State = "media_attempted"
	StateParentPosted   State = "parent_posted"
	StateReply1Posted   State = "reply1_posted"
	StateReply2Posted   State = "reply2_posted"
	StateFailed         State = "failed"
)

// Step names one externally visible action of the machine.
type Step string

const (
	StepMedia  Step = "media"
	StepParent Step = "parent"
	StepReply1 Step = "reply1"
	StepReply2 Step = "reply2"
)

// Status classifies the overall result of one run.
type Status string

const (
	StatusNoEligibleRow  Status = "no_eligible_row"
	StatusPublished      Status = "published"
	StatusPartialFailure Status = "partial_failure"
	StatusHardFailure    Status = "hard_failure"
)

// ThreadRequest carries the content of one schedule row into the publisher.
type ThreadRequest struct {
	RowIndex   int
	ParentText string
	Reply1Text string
	Reply2Text string
	ImageURL   string
}

// Outcome reports how far one publish attempt got. There is no rollback on
// the posting platform, so partially created threads stay up; the operator
// uses the completed IDs and the failed step to continue a thread by hand.
type Outcome struct {
	Status        Status
	State         State
	RowIndex      int
	ParentID      string
	Reply1ID      string
	Reply2ID      string
	FailedStep    Step
	MediaDegraded bool // image fetch or upload failed; parent went out text-only
	Err           error
}

// CompletedIDs returns the identifiers of every post actually created, in
// thread order.
func (o Outcome) CompletedIDs() []string {
	var ids []string
	for _, id := range []string{o.ParentID, o.Reply1ID, o.Reply2ID} {
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// IPostingClient is the posting platform boundary.
type IPostingClient interface {
	UploadMedia(ctx context.Context, data []byte, filename string) (string, error)
	CreatePost(ctx context.Context, text string, mediaIDs []string) (string, error)
	CreateReply(ctx context.Context, text string, inReplyTo string) (string, error)
}

// IPublishUsecase executes the thread state machine for one row.
type IPublishUsecase interface {
	Publish(ctx context.Context, request ThreadRequest) Outcome
}
