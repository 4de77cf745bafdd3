package error

type WebhookError string

func (err WebhookError) Error() string {
	return string(err)
}

func (err WebhookError) ErrCode() string {
	return "WEBHOOK_ERROR"
}
