package validations

import (
	"context"

	"github.com/AzielCF/az-xpost/config"
	domainSchedule "github.com/AzielCF/az-xpost/domains/schedule"
	pkgError "github.com/AzielCF/az-xpost/pkg/error"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type runConfig struct {
	APIKey       string
	APISecret    string
	AccessToken  string
	AccessSecret string
	SheetURL     string
	WindowPolicy string
	Window       int
	ReplyDelay   int
}

// ValidateRunConfig checks that the environment provided everything a run
// needs before any network call is made.
func ValidateRunConfig(ctx context.Context) error {
	request := runConfig{
		APIKey:       config.XAPIKey,
		APISecret:    config.XAPISecret,
		AccessToken:  config.XAccessToken,
		AccessSecret: config.XAccessSecret,
		SheetURL:     config.SheetURL,
		WindowPolicy: config.WindowPolicy,
		Window:       config.WindowMinutes,
		ReplyDelay:   config.ReplyDelaySeconds,
	}

	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.APIKey, validation.Required),
		validation.Field(&request.APISecret, validation.Required),
		validation.Field(&request.AccessToken, validation.Required),
		validation.Field(&request.AccessSecret, validation.Required),
		validation.Field(&request.SheetURL, validation.Required),
		validation.Field(&request.WindowPolicy, validation.Required, validation.In(
			string(domainSchedule.WindowPolicySymmetric),
			string(domainSchedule.WindowPolicyForward),
		)),
		validation.Field(&request.Window, validation.Min(1)),
		validation.Field(&request.ReplyDelay, validation.Min(0)),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}
