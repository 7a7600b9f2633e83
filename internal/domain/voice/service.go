// Package voice turns dictated voice memos into item text.
package voice

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"focusframe-server/internal/domain/item"
	"focusframe-server/internal/domain/notice"
)

// Transcriber converts audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio Audio) (string, error)
}

// ItemAdder is the Add path of the mutation coordinator.
type ItemAdder interface {
	Add(ctx context.Context, ownerID, content string, bucket item.Bucket) (string, error)
}

// Service transcribes voice memos and can feed the result into Add.
type Service struct {
	transcriber Transcriber
	items       ItemAdder
	notices     notice.Notifier
	maxBytes    int
	log         zerolog.Logger
}

// NewService wires the voice intake service.
func NewService(transcriber Transcriber, items ItemAdder, notices notice.Notifier, maxBytes int, log zerolog.Logger) *Service {
	return &Service{
		transcriber: transcriber,
		items:       items,
		notices:     notices,
		maxBytes:    maxBytes,
		log:         log.With().Str("component", "voice-service").Logger(),
	}
}

// MaxAudioBytes is the largest decoded memo the service accepts.
func (s *Service) MaxAudioBytes() int {
	return s.maxBytes
}

// Transcribe decodes the data URI and returns the trimmed transcription.
// Only an authenticated owner may reach the transcription service.
func (s *Service) Transcribe(ctx context.Context, ownerID, dataURI string) (string, error) {
	if strings.TrimSpace(ownerID) == "" {
		return "", item.NewValidationError(ctx, "an authenticated owner is required")
	}
	audio, err := ParseDataURI(ctx, dataURI, s.maxBytes)
	if err != nil {
		return "", err
	}

	text, err := s.transcriber.Transcribe(ctx, audio)
	if err != nil {
		s.log.Warn().Err(err).Str("owner_id", ownerID).Str("mime", audio.MIMEType).Msg("transcription failed")
		s.notify(ownerID, notice.Error("Transcription Error", "Could not transcribe voice memo."))
		return "", err
	}

	text = strings.TrimSpace(text)
	s.notify(ownerID, notice.Info("Transcription Successful", "Review and add your item."))
	return text, nil
}

// AddFromVoice transcribes the memo and adds it as a new item in bucket.
func (s *Service) AddFromVoice(ctx context.Context, ownerID, dataURI string, bucket item.Bucket) (string, string, error) {
	text, err := s.Transcribe(ctx, ownerID, dataURI)
	if err != nil {
		return "", "", err
	}
	if text == "" {
		return "", "", item.NewValidationError(ctx, "no speech was recognized in the voice memo")
	}

	id, err := s.items.Add(ctx, ownerID, text, bucket)
	if err != nil {
		return "", text, err
	}
	return id, text, nil
}

func (s *Service) notify(ownerID string, n notice.Notice) {
	if s.notices != nil {
		s.notices.Notify(ownerID, n)
	}
}
