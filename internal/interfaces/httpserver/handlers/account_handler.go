package handlers

import (
	"context"

	"focusframe-server/internal/domain/owner"
	"focusframe-server/internal/interfaces/httpserver/responses/accountres"
	"focusframe-server/internal/utils/platformerrors"
)

// AccountHandler serves the account page.
type AccountHandler struct {
	owners *owner.Service
}

// NewAccountHandler wires dependencies for account routes.
func NewAccountHandler(owners *owner.Service) *AccountHandler {
	return &AccountHandler{owners: owners}
}

// Get returns the caller's profile, recording the sign-in when it is the
// first request the owner makes.
func (h *AccountHandler) Get(ctx context.Context, identity owner.Identity) (accountres.AccountResponse, error) {
	profile, err := h.owners.Profile(ctx, identity.ID)
	if platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
		if _, err = h.owners.Touch(ctx, identity); err != nil {
			return accountres.AccountResponse{}, err
		}
		profile, err = h.owners.Profile(ctx, identity.ID)
	}
	if err != nil {
		return accountres.AccountResponse{}, err
	}
	return accountres.NewAccountResponse(profile), nil
}

// Delete forgets the caller: every item first, then the owner record.
func (h *AccountHandler) Delete(ctx context.Context, ownerID string) (accountres.AccountDeletedResponse, error) {
	if err := h.owners.Forget(ctx, ownerID); err != nil {
		return accountres.AccountDeletedResponse{}, err
	}
	return accountres.AccountDeletedResponse{ID: ownerID, Object: "account", Deleted: true}, nil
}
