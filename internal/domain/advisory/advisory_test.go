package advisory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focusframe-server/internal/domain/item"
	"focusframe-server/internal/domain/notice"
)

type fakeAdvisor struct {
	suggestFunc func(ctx context.Context, content string, bucket item.Bucket) (*item.Suggestion, error)
}

func (f *fakeAdvisor) Suggest(ctx context.Context, content string, bucket item.Bucket) (*item.Suggestion, error) {
	return f.suggestFunc(ctx, content, bucket)
}

type updateCall struct {
	ownerID, itemID string
	patch           item.Patch
}

type fakeStore struct {
	item.Store

	mu        sync.Mutex
	updates   []updateCall
	updateErr error
}

func (s *fakeStore) Update(_ context.Context, ownerID, id string, patch item.Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, updateCall{ownerID, id, patch})
	return s.updateErr
}

type fakeNotifier struct {
	mu      sync.Mutex
	notices []notice.Notice
}

func (f *fakeNotifier) Notify(_ string, n notice.Notice) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notices = append(f.notices, n)
}

func TestDispatcherWritesSuggestion(t *testing.T) {
	advisor := &fakeAdvisor{suggestFunc: func(_ context.Context, content string, bucket item.Bucket) (*item.Suggestion, error) {
		assert.Equal(t, "Finish report", content)
		assert.Equal(t, item.BucketControl, bucket)
		return &item.Suggestion{SuggestedBucket: item.BucketInfluence, Reasoning: "Depends on others' input."}, nil
	}}
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	d := NewDispatcher(advisor, store, notifier, zerolog.Nop())

	d.Trigger(context.Background(), "owner-1", "item_1", "Finish report", item.BucketControl)
	d.Wait()

	require.Len(t, store.updates, 1)
	call := store.updates[0]
	assert.Equal(t, "owner-1", call.ownerID)
	assert.Equal(t, "item_1", call.itemID)
	assert.Nil(t, call.patch.Content)
	assert.Nil(t, call.patch.Bucket)
	assert.Equal(t, item.SuggestionSet, call.patch.SuggestionChange)
	assert.Equal(t, item.BucketInfluence, call.patch.Suggestion.SuggestedBucket)
	assert.Empty(t, notifier.notices)
}

func TestDispatcherSkipsAgreeingSuggestion(t *testing.T) {
	cases := map[string]*item.Suggestion{
		"nil":            nil,
		"same bucket":    {SuggestedBucket: item.BucketControl, Reasoning: "fine"},
		"unknown bucket": {SuggestedBucket: item.Bucket("elsewhere")},
	}
	for name, reply := range cases {
		t.Run(name, func(t *testing.T) {
			advisor := &fakeAdvisor{suggestFunc: func(context.Context, string, item.Bucket) (*item.Suggestion, error) {
				return reply, nil
			}}
			store := &fakeStore{}
			d := NewDispatcher(advisor, store, &fakeNotifier{}, zerolog.Nop())

			d.Trigger(context.Background(), "owner-1", "item_1", "Finish report", item.BucketControl)
			d.Wait()
			assert.Empty(t, store.updates)
		})
	}
}

func TestDispatcherErrorNotifiesWithoutWriting(t *testing.T) {
	advisor := &fakeAdvisor{suggestFunc: func(ctx context.Context, _ string, _ item.Bucket) (*item.Suggestion, error) {
		return nil, NewAdvisoryError(ctx, "advisory call failed", errors.New("503"))
	}}
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	d := NewDispatcher(advisor, store, notifier, zerolog.Nop())

	d.Trigger(context.Background(), "owner-1", "item_1", "Call plumber", item.BucketControl)
	d.Wait()

	assert.Empty(t, store.updates)
	require.Len(t, notifier.notices, 1)
	assert.Equal(t, notice.LevelError, notifier.notices[0].Level)
}

func TestDispatcherOutlivesRequestContext(t *testing.T) {
	release := make(chan struct{})
	advisor := &fakeAdvisor{suggestFunc: func(ctx context.Context, _ string, _ item.Bucket) (*item.Suggestion, error) {
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return &item.Suggestion{SuggestedBucket: item.BucketAcceptance}, nil
	}}
	store := &fakeStore{}
	d := NewDispatcher(advisor, store, &fakeNotifier{}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Trigger(ctx, "owner-1", "item_1", "Weather on Sunday", item.BucketControl)
	cancel()
	close(release)
	d.Wait()

	require.Len(t, store.updates, 1)
	assert.Equal(t, item.BucketAcceptance, store.updates[0].patch.Suggestion.SuggestedBucket)
}

func TestDispatcherToleratesDeletedItem(t *testing.T) {
	advisor := &fakeAdvisor{suggestFunc: func(context.Context, string, item.Bucket) (*item.Suggestion, error) {
		return &item.Suggestion{SuggestedBucket: item.BucketInfluence}, nil
	}}
	store := &fakeStore{updateErr: item.NewStoreError(context.Background(), "update item", item.ErrNotFound)}
	notifier := &fakeNotifier{}
	d := NewDispatcher(advisor, store, notifier, zerolog.Nop())

	d.Trigger(context.Background(), "owner-1", "gone", "Finish report", item.BucketControl)
	d.Wait()

	assert.Len(t, store.updates, 1)
	assert.Empty(t, notifier.notices)
}

func TestDisabledAdvisor(t *testing.T) {
	s, err := Disabled{}.Suggest(context.Background(), "anything", item.BucketControl)
	assert.NoError(t, err)
	assert.Nil(t, s)
}

func TestIsAdvisoryError(t *testing.T) {
	err := NewAdvisoryError(context.Background(), "boom", errors.New("timeout"))
	assert.True(t, IsAdvisoryError(err))
	assert.False(t, IsAdvisoryError(errors.New("plain")))
}
