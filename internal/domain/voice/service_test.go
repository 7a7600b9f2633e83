package voice

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focusframe-server/internal/domain/item"
	"focusframe-server/internal/domain/notice"
)

type fakeTranscriber struct {
	transcribeFunc func(ctx context.Context, audio Audio) (string, error)
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audio Audio) (string, error) {
	return f.transcribeFunc(ctx, audio)
}

type fakeAdder struct {
	calls  []string
	bucket item.Bucket
	err    error
}

func (f *fakeAdder) Add(_ context.Context, _, content string, bucket item.Bucket) (string, error) {
	f.calls = append(f.calls, content)
	f.bucket = bucket
	if f.err != nil {
		return "", f.err
	}
	return "item_voice", nil
}

type fakeNotifier struct {
	titles []string
}

func (f *fakeNotifier) Notify(_ string, n notice.Notice) {
	f.titles = append(f.titles, n.Title)
}

func transcribing(text string, err error) *fakeTranscriber {
	return &fakeTranscriber{transcribeFunc: func(context.Context, Audio) (string, error) { return text, err }}
}

func TestServiceTranscribe(t *testing.T) {
	notifier := &fakeNotifier{}
	s := NewService(transcribing("  Call the plumber \n", nil), &fakeAdder{}, notifier, 1<<20, zerolog.Nop())

	text, err := s.Transcribe(context.Background(), "owner-1", dataURI("audio/wav", wavBytes()))
	require.NoError(t, err)
	assert.Equal(t, "Call the plumber", text)
	assert.Equal(t, []string{"Transcription Successful"}, notifier.titles)
}

func TestServiceTranscribeFailure(t *testing.T) {
	notifier := &fakeNotifier{}
	s := NewService(transcribing("", errors.New("upstream 500")), &fakeAdder{}, notifier, 1<<20, zerolog.Nop())

	_, err := s.Transcribe(context.Background(), "owner-1", dataURI("audio/wav", wavBytes()))
	require.Error(t, err)
	assert.Equal(t, []string{"Transcription Error"}, notifier.titles)
}

func TestServiceTranscribeRejectsBadAudioWithoutCalling(t *testing.T) {
	called := false
	tr := &fakeTranscriber{transcribeFunc: func(context.Context, Audio) (string, error) {
		called = true
		return "", nil
	}}
	s := NewService(tr, &fakeAdder{}, &fakeNotifier{}, 1<<20, zerolog.Nop())

	_, err := s.Transcribe(context.Background(), "owner-1", "not-a-data-uri")
	assert.True(t, item.IsValidationError(err))
	assert.False(t, called)
}

func TestServiceAddFromVoice(t *testing.T) {
	adder := &fakeAdder{}
	s := NewService(transcribing("Finish report", nil), adder, &fakeNotifier{}, 1<<20, zerolog.Nop())

	id, text, err := s.AddFromVoice(context.Background(), "owner-1", dataURI("audio/wav", wavBytes()), item.BucketInfluence)
	require.NoError(t, err)
	assert.Equal(t, "item_voice", id)
	assert.Equal(t, "Finish report", text)
	assert.Equal(t, []string{"Finish report"}, adder.calls)
	assert.Equal(t, item.BucketInfluence, adder.bucket)
}

func TestServiceAddFromVoiceSilence(t *testing.T) {
	adder := &fakeAdder{}
	s := NewService(transcribing("   ", nil), adder, &fakeNotifier{}, 1<<20, zerolog.Nop())

	_, _, err := s.AddFromVoice(context.Background(), "owner-1", dataURI("audio/wav", wavBytes()), item.BucketControl)
	assert.True(t, item.IsValidationError(err))
	assert.Empty(t, adder.calls)
}

func TestServiceAddFromVoiceRequiresOwner(t *testing.T) {
	adder := &fakeAdder{}
	s := NewService(transcribing("Finish report", nil), adder, &fakeNotifier{}, 1<<20, zerolog.Nop())

	_, _, err := s.AddFromVoice(context.Background(), "", dataURI("audio/wav", wavBytes()), item.BucketControl)
	assert.True(t, item.IsValidationError(err))
	assert.Empty(t, adder.calls)
}

func TestServiceTranscribeRequiresOwner(t *testing.T) {
	called := false
	tr := &fakeTranscriber{transcribeFunc: func(context.Context, Audio) (string, error) {
		called = true
		return "Call the plumber", nil
	}}
	notifier := &fakeNotifier{}
	s := NewService(tr, &fakeAdder{}, notifier, 1<<20, zerolog.Nop())

	for _, ownerID := range []string{"", "   "} {
		_, err := s.Transcribe(context.Background(), ownerID, dataURI("audio/wav", wavBytes()))
		assert.True(t, item.IsValidationError(err))
	}
	assert.False(t, called)
	assert.Empty(t, notifier.titles)
}
