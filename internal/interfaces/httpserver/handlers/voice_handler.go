package handlers

import (
	"context"

	"github.com/go-playground/validator/v10"

	"focusframe-server/internal/domain/voice"
	"focusframe-server/internal/infrastructure/metrics"
	"focusframe-server/internal/interfaces/httpserver/requests/itemreq"
	"focusframe-server/internal/interfaces/httpserver/responses/itemres"
)

const voiceBodySlack = 64 * 1024

// VoiceHandler runs voice intake use cases.
type VoiceHandler struct {
	service  *voice.Service
	validate *validator.Validate
}

// NewVoiceHandler wires dependencies for voice routes.
func NewVoiceHandler(service *voice.Service) *VoiceHandler {
	return &VoiceHandler{service: service, validate: itemreq.NewValidator()}
}

// MaxBodyBytes bounds a voice request body: the base64 form of the largest
// accepted memo plus room for the JSON envelope.
func (h *VoiceHandler) MaxBodyBytes() int64 {
	audio := int64(h.service.MaxAudioBytes())
	if audio <= 0 {
		return 0
	}
	return audio*4/3 + voiceBodySlack
}

func (h *VoiceHandler) Transcribe(ctx context.Context, ownerID string, req itemreq.TranscriptionRequest) (itemres.TranscriptionResponse, error) {
	if err := itemreq.Validate(ctx, h.validate, req); err != nil {
		return itemres.TranscriptionResponse{}, err
	}
	text, err := h.service.Transcribe(ctx, ownerID, req.Audio)
	if err != nil {
		return itemres.TranscriptionResponse{}, err
	}
	return itemres.TranscriptionResponse{Transcription: text}, nil
}

func (h *VoiceHandler) AddFromVoice(ctx context.Context, ownerID string, req itemreq.VoiceItemRequest) (itemres.VoiceItemResponse, error) {
	if err := itemreq.Validate(ctx, h.validate, req); err != nil {
		return itemres.VoiceItemResponse{}, err
	}
	bucket, err := parseBucket(ctx, req.Bucket, true)
	if err != nil {
		return itemres.VoiceItemResponse{}, err
	}
	id, text, err := h.service.AddFromVoice(ctx, ownerID, req.Audio, bucket)
	metrics.RecordMutation("add_voice", err)
	if err != nil {
		return itemres.VoiceItemResponse{}, err
	}
	return itemres.VoiceItemResponse{ID: id, Object: "item", Transcription: text}, nil
}
