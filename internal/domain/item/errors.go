package item

import (
	"context"
	"errors"

	"focusframe-server/internal/utils/platformerrors"
)

// ErrNotFound is returned by repositories when the item does not exist for the owner.
var ErrNotFound = errors.New("item not found")

// NewValidationError reports bad caller input. Nothing was written.
func NewValidationError(ctx context.Context, message string) *platformerrors.PlatformError {
	return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, message, nil)
}

// NewStoreError wraps a backing store failure for the named operation.
func NewStoreError(ctx context.Context, op string, err error) *platformerrors.PlatformError {
	if errors.Is(err, ErrNotFound) {
		return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
			"item not found", err, map[string]any{"op": op})
	}
	return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
		op+" failed", err, map[string]any{"op": op})
}

// IsValidationError reports whether err was caused by rejected input.
func IsValidationError(err error) bool {
	return platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation)
}

// IsStoreError reports whether err is a backing store failure.
func IsStoreError(err error) bool {
	return platformerrors.IsErrorType(err, platformerrors.ErrorTypeDatabaseError)
}

// IsNotFound reports whether err means the item does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound)
}
