package handlers

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"

	"focusframe-server/internal/domain/item"
	"focusframe-server/internal/infrastructure/metrics"
	"focusframe-server/internal/interfaces/httpserver/requests/itemreq"
	"focusframe-server/internal/interfaces/httpserver/responses/itemres"
)

// ItemHandler runs item use cases for the REST routes.
type ItemHandler struct {
	coordinator *item.Coordinator
	store       item.Store
	validate    *validator.Validate
}

// NewItemHandler wires dependencies for item routes.
func NewItemHandler(coordinator *item.Coordinator, store item.Store) *ItemHandler {
	return &ItemHandler{
		coordinator: coordinator,
		store:       store,
		validate:    itemreq.NewValidator(),
	}
}

// List returns the owner's items, newest first. Anonymous callers get an empty list.
func (h *ItemHandler) List(ctx context.Context, ownerID string) (itemres.ItemListResponse, error) {
	items, err := h.store.List(ctx, ownerID)
	if err != nil {
		return itemres.ItemListResponse{}, err
	}
	return itemres.NewItemListResponse(items), nil
}

// Get returns one item.
func (h *ItemHandler) Get(ctx context.Context, ownerID, id string) (itemres.ItemResponse, error) {
	it, err := h.store.Get(ctx, ownerID, id)
	if err != nil {
		return itemres.ItemResponse{}, err
	}
	return itemres.NewItemResponse(it), nil
}

func (h *ItemHandler) Create(ctx context.Context, ownerID string, req itemreq.CreateItemRequest) (itemres.ItemCreatedResponse, error) {
	if err := itemreq.Validate(ctx, h.validate, req); err != nil {
		return itemres.ItemCreatedResponse{}, err
	}
	bucket, err := parseBucket(ctx, req.Bucket, true)
	if err != nil {
		return itemres.ItemCreatedResponse{}, err
	}
	id, err := h.coordinator.Add(ctx, ownerID, req.Content, bucket)
	metrics.RecordMutation("add", err)
	if err != nil {
		return itemres.ItemCreatedResponse{}, err
	}
	return itemres.ItemCreatedResponse{ID: id, Object: "item"}, nil
}

func (h *ItemHandler) Edit(ctx context.Context, ownerID, id string, req itemreq.EditItemRequest) error {
	if err := itemreq.Validate(ctx, h.validate, req); err != nil {
		return err
	}
	bucket, err := parseBucket(ctx, req.Bucket, false)
	if err != nil {
		return err
	}
	err = h.coordinator.Edit(ctx, ownerID, id, req.Content, bucket)
	metrics.RecordMutation("edit", err)
	return err
}

// Patch decodes loose fields; identity fields are dropped before the write.
func (h *ItemHandler) Patch(ctx context.Context, ownerID, id string, fields map[string]any) error {
	patch, err := item.PatchFromFields(ctx, fields)
	if err != nil {
		return err
	}
	err = h.coordinator.Patch(ctx, ownerID, id, patch)
	metrics.RecordMutation("patch", err)
	return err
}

func (h *ItemHandler) Move(ctx context.Context, ownerID, id string, req itemreq.MoveItemRequest) (itemres.ItemMovedResponse, error) {
	if err := itemreq.Validate(ctx, h.validate, req); err != nil {
		return itemres.ItemMovedResponse{}, err
	}
	bucket, err := parseBucket(ctx, req.Bucket, false)
	if err != nil {
		return itemres.ItemMovedResponse{}, err
	}
	moved, err := h.coordinator.Move(ctx, ownerID, id, bucket)
	metrics.RecordMutation("move", err)
	if err != nil {
		return itemres.ItemMovedResponse{}, err
	}
	return itemres.ItemMovedResponse{ID: id, Bucket: string(bucket), Moved: moved}, nil
}

func (h *ItemHandler) Delete(ctx context.Context, ownerID, id string) (itemres.ItemDeletedResponse, error) {
	err := h.coordinator.Delete(ctx, ownerID, id)
	metrics.RecordMutation("delete", err)
	if err != nil {
		return itemres.ItemDeletedResponse{}, err
	}
	return itemres.ItemDeletedResponse{ID: id, Object: "item", Deleted: true}, nil
}

func (h *ItemHandler) ApplySuggestion(ctx context.Context, ownerID, id string) error {
	err := h.coordinator.ApplySuggestion(ctx, ownerID, id)
	metrics.RecordMutation("apply_suggestion", err)
	return err
}

func (h *ItemHandler) DismissSuggestion(ctx context.Context, ownerID, id string) error {
	err := h.coordinator.DismissSuggestion(ctx, ownerID, id)
	metrics.RecordMutation("dismiss_suggestion", err)
	return err
}

func parseBucket(ctx context.Context, raw string, allowEmpty bool) (item.Bucket, error) {
	if allowEmpty && strings.TrimSpace(raw) == "" {
		return item.DefaultBucket, nil
	}
	bucket, ok := item.ParseBucket(raw)
	if !ok {
		return "", item.NewValidationError(ctx, "bucket must be one of control, influence, acceptance")
	}
	return bucket, nil
}
