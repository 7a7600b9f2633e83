package item

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"focusframe-server/internal/domain/notice"
)

// AdvisoryTrigger starts a background recategorization check for an item.
// Implementations return immediately.
type AdvisoryTrigger interface {
	Trigger(ctx context.Context, ownerID, itemID, content string, bucket Bucket)
}

// Coordinator sequences user mutations against the store. It never edits a
// local copy of the items: callers see the result through the next snapshot.
type Coordinator struct {
	store    Store
	advisory AdvisoryTrigger
	notices  notice.Notifier
	log      zerolog.Logger
}

// NewCoordinator wires the mutation coordinator.
func NewCoordinator(store Store, advisory AdvisoryTrigger, notices notice.Notifier, log zerolog.Logger) *Coordinator {
	return &Coordinator{
		store:    store,
		advisory: advisory,
		notices:  notices,
		log:      log.With().Str("component", "item-coordinator").Logger(),
	}
}

// Add creates a new item and asks the advisory about it.
func (c *Coordinator) Add(ctx context.Context, ownerID, content string, bucket Bucket) (string, error) {
	if err := requireOwner(ctx, ownerID); err != nil {
		return "", err
	}
	draft, err := NewDraft(ctx, content, bucket)
	if err != nil {
		return "", err
	}

	id, err := c.store.Create(ctx, ownerID, draft)
	if err != nil {
		c.fail(ownerID, err, "Error Saving Item", "Could not save item.")
		return "", err
	}

	c.advisory.Trigger(ctx, ownerID, id, draft.Content, draft.Bucket)
	c.notify(ownerID, notice.Info("Item Added",
		fmt.Sprintf("%q added to %s.", notice.Preview(draft.Content), draft.Bucket.Title())))
	c.log.Debug().Str("owner_id", ownerID).Str("item_id", id).Str("bucket", string(draft.Bucket)).Msg("item added")
	return id, nil
}

// Edit replaces content and bucket, dropping any suggestion, then re-checks.
func (c *Coordinator) Edit(ctx context.Context, ownerID, id, content string, bucket Bucket) error {
	if err := requireOwner(ctx, ownerID); err != nil {
		return err
	}
	draft, err := NewDraft(ctx, content, bucket)
	if err != nil {
		return err
	}

	if err := c.store.Update(ctx, ownerID, id, ContentPatch(draft.Content, draft.Bucket)); err != nil {
		c.fail(ownerID, err, "Error Saving Item", "Could not save item.")
		return err
	}

	c.advisory.Trigger(ctx, ownerID, id, draft.Content, draft.Bucket)
	c.notify(ownerID, notice.Info("Item Updated", fmt.Sprintf("%q updated.", notice.Preview(draft.Content))))
	return nil
}

// Patch applies a partial update. Touching content or bucket has edit
// semantics: the suggestion is cleared and the advisory runs again.
func (c *Coordinator) Patch(ctx context.Context, ownerID, id string, patch Patch) error {
	if err := requireOwner(ctx, ownerID); err != nil {
		return err
	}
	normalized, err := patch.Normalize(ctx)
	if err != nil {
		return err
	}
	if normalized.IsEmpty() {
		return nil
	}
	if !normalized.TouchesClassification() {
		return c.write(ctx, ownerID, id, normalized, "Error Saving Item", "Could not save item.")
	}

	current, err := c.store.Get(ctx, ownerID, id)
	if err != nil {
		c.fail(ownerID, err, "Error Saving Item", "Could not save item.")
		return err
	}
	normalized.SuggestionChange = SuggestionClear
	normalized.Suggestion = nil
	if err := c.write(ctx, ownerID, id, normalized, "Error Saving Item", "Could not save item."); err != nil {
		return err
	}

	next := normalized.Apply(current)
	c.advisory.Trigger(ctx, ownerID, id, next.Content, next.Bucket)
	c.notify(ownerID, notice.Info("Item Updated", fmt.Sprintf("%q updated.", notice.Preview(next.Content))))
	return nil
}

// Move files an item under target. Moving to the current bucket writes
// nothing and returns false.
func (c *Coordinator) Move(ctx context.Context, ownerID, id string, target Bucket) (bool, error) {
	if err := requireOwner(ctx, ownerID); err != nil {
		return false, err
	}
	if !target.Valid() {
		return false, NewValidationError(ctx, "bucket must be one of control, influence, acceptance")
	}

	current, err := c.store.Get(ctx, ownerID, id)
	if err != nil {
		c.fail(ownerID, err, "Error Moving Item", "Could not update item.")
		return false, err
	}
	if current.Bucket == target {
		return false, nil
	}

	if err := c.write(ctx, ownerID, id, BucketPatch(target), "Error Moving Item", "Could not update item."); err != nil {
		return false, err
	}

	c.advisory.Trigger(ctx, ownerID, id, current.Content, target)
	c.notify(ownerID, notice.Info("Item Moved", fmt.Sprintf("Item moved to %s.", target.Title())))
	return true, nil
}

// Delete removes an item. There is no undo.
func (c *Coordinator) Delete(ctx context.Context, ownerID, id string) error {
	if err := requireOwner(ctx, ownerID); err != nil {
		return err
	}

	preview := "Item"
	if current, err := c.store.Get(ctx, ownerID, id); err == nil {
		preview = notice.Preview(current.Content)
	}

	if err := c.store.Delete(ctx, ownerID, id); err != nil {
		c.fail(ownerID, err, "Error Deleting Item", "Could not delete item.")
		return err
	}
	c.notify(ownerID, notice.Info("Item Deleted", fmt.Sprintf("%q deleted.", preview)))
	return nil
}

// ApplySuggestion moves the item to its suggested bucket. The advisory is
// not asked again: the user's acceptance settles it.
func (c *Coordinator) ApplySuggestion(ctx context.Context, ownerID, id string) error {
	if err := requireOwner(ctx, ownerID); err != nil {
		return err
	}

	current, err := c.store.Get(ctx, ownerID, id)
	if err != nil {
		c.fail(ownerID, err, "Error Moving Item", "Could not update item.")
		return err
	}
	if current.Suggestion == nil {
		return NewValidationError(ctx, "item has no suggestion to apply")
	}

	target := current.Suggestion.SuggestedBucket
	if err := c.write(ctx, ownerID, id, BucketPatch(target), "Error Moving Item", "Could not update item."); err != nil {
		return err
	}
	c.notify(ownerID, notice.Info("Item Moved", fmt.Sprintf("Item moved to %s.", target.Title())))
	return nil
}

// DismissSuggestion drops the suggestion and leaves the bucket alone.
func (c *Coordinator) DismissSuggestion(ctx context.Context, ownerID, id string) error {
	if err := requireOwner(ctx, ownerID); err != nil {
		return err
	}
	return c.write(ctx, ownerID, id, ClearSuggestionPatch(), "Error Saving Item", "Could not save item.")
}

func (c *Coordinator) write(ctx context.Context, ownerID, id string, patch Patch, title, description string) error {
	if err := c.store.Update(ctx, ownerID, id, patch); err != nil {
		c.fail(ownerID, err, title, description)
		return err
	}
	return nil
}

// fail reports store failures as notices. Validation errors are returned
// to the caller only.
func (c *Coordinator) fail(ownerID string, err error, title, description string) {
	if IsValidationError(err) {
		return
	}
	if IsNotFound(err) {
		description = "The item no longer exists."
	}
	c.log.Warn().Err(err).Str("owner_id", ownerID).Str("notice", title).Msg("item mutation failed")
	c.notify(ownerID, notice.Error(title, description))
}

func (c *Coordinator) notify(ownerID string, n notice.Notice) {
	if c.notices != nil {
		c.notices.Notify(ownerID, n)
	}
}
