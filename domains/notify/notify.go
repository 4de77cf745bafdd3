package notify

import "context"

// INotifyUsecase delivers run outcomes to the operator channel. Delivery is
// best-effort: implementations log failures and never surface them, a broken
// webhook must not change the result of a run.
type INotifyUsecase interface {
	Notify(ctx context.Context, message string, isError bool)
}
