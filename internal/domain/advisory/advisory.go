// Package advisory runs the background recategorization check that may
// attach a suggestion to an item.
package advisory

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"focusframe-server/internal/domain/item"
	"focusframe-server/internal/domain/notice"
	"focusframe-server/internal/utils/platformerrors"
)

// Advisor asks an external reasoning service whether bucket fits content.
// A nil suggestion means the categorization looks right.
type Advisor interface {
	Suggest(ctx context.Context, content string, bucket item.Bucket) (*item.Suggestion, error)
}

// NewAdvisoryError wraps a reasoning or transcription service failure.
func NewAdvisoryError(ctx context.Context, message string, err error) *platformerrors.PlatformError {
	return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal, message, err)
}

// IsAdvisoryError reports whether err came from an external advisory call.
func IsAdvisoryError(err error) bool {
	return platformerrors.IsErrorType(err, platformerrors.ErrorTypeExternal)
}

// Disabled never suggests anything.
type Disabled struct{}

func (Disabled) Suggest(context.Context, string, item.Bucket) (*item.Suggestion, error) {
	return nil, nil
}

// Dispatcher fires one advisory call per trigger and patches only the
// suggestion field with the result. Calls are not retried, queued or
// cancelled; when two overlap the later write wins.
type Dispatcher struct {
	advisor Advisor
	store   item.Store
	notices notice.Notifier
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher wires the advisory dispatcher.
func NewDispatcher(advisor Advisor, store item.Store, notices notice.Notifier, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		advisor: advisor,
		store:   store,
		notices: notices,
		log:     log.With().Str("component", "advisory-dispatcher").Logger(),
	}
}

// Trigger starts the check in the background and returns immediately.
// The request context is detached so the call outlives the request.
func (d *Dispatcher) Trigger(ctx context.Context, ownerID, itemID, content string, bucket item.Bucket) {
	bg := context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.run(bg, ownerID, itemID, content, bucket)
	}()
}

// Wait blocks until every triggered call has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) run(ctx context.Context, ownerID, itemID, content string, bucket item.Bucket) {
	log := d.log.With().Str("owner_id", ownerID).Str("item_id", itemID).Logger()

	suggestion, err := d.advisor.Suggest(ctx, content, bucket)
	if err != nil {
		if pe := platformerrors.GetPlatformError(err); pe != nil {
			platformerrors.LogError(log, pe)
		} else {
			log.Error().Err(err).Msg("advisory call failed")
		}
		if d.notices != nil {
			d.notices.Notify(ownerID, notice.Error("Suggestion Unavailable", "Could not check the category of this item."))
		}
		return
	}

	suggestion = normalize(suggestion, bucket)
	if suggestion == nil {
		log.Debug().Str("bucket", string(bucket)).Msg("advisory agrees with bucket")
		return
	}

	if err := d.store.Update(ctx, ownerID, itemID, item.SuggestionPatch(*suggestion)); err != nil {
		// The item may have been deleted while the call was in flight.
		log.Warn().Err(err).Msg("write suggestion")
		return
	}
	log.Info().
		Str("bucket", string(bucket)).
		Str("suggested_bucket", string(suggestion.SuggestedBucket)).
		Msg("suggestion attached")
}

func normalize(s *item.Suggestion, current item.Bucket) *item.Suggestion {
	if s == nil {
		return nil
	}
	return item.NewSuggestion(s.SuggestedBucket, s.Reasoning, current)
}
