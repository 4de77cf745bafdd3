package validations

import (
	"context"

	domainPublish "github.com/AzielCF/az-xpost/domains/publish"
	pkgError "github.com/AzielCF/az-xpost/pkg/error"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

func ValidatePublishThread(ctx context.Context, request domainPublish.ThreadRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.ParentText, validation.Required),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}
