package config

var (
	AppVersion = "v1.0.0"
	AppDebug   = false

	PathSendItems = "statics/senditems"
	PathStorages  = "storages"

	// Posting API credentials (OAuth1 user context).
	XAPIKey       string
	XAPISecret    string
	XAccessToken  string
	XAccessSecret string

	// Schedule source: a Google Sheets share URL or any CSV export endpoint.
	SheetURL string

	// Operator channel endpoint. Empty disables notifications.
	WebhookURL string

	// Eligibility window size and policy ("symmetric" or "forward").
	WindowMinutes = 30
	WindowPolicy  = "symmetric"

	// Unconditional wait before each reply post.
	ReplyDelaySeconds = 10

	// Fixed offset in which schedule cells and "now" are interpreted.
	ScheduleUTCOffsetMinutes = 0

	// Optional local marker database. Empty disables duplicate-post
	// protection; the sheet's posted column stays advisory either way.
	MarkerDBPath string
)
