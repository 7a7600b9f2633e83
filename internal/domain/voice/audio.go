package voice

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"focusframe-server/internal/domain/item"
)

// Audio is a decoded voice memo.
type Audio struct {
	MIMEType  string
	Extension string
	Data      []byte
}

// FileName is the name sent to the transcription service, which uses the
// extension to pick a decoder.
func (a Audio) FileName() string {
	return "voice-memo" + a.Extension
}

// ParseDataURI decodes "data:<mime>;base64,<payload>" and checks that the
// payload is audio no larger than maxBytes.
func ParseDataURI(ctx context.Context, raw string, maxBytes int) (Audio, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(raw), "data:")
	if !ok {
		return Audio{}, item.NewValidationError(ctx, "voice memo must be a data URI")
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return Audio{}, item.NewValidationError(ctx, "voice memo data URI has no payload")
	}

	params := strings.Split(header, ";")
	declared := strings.ToLower(strings.TrimSpace(params[0]))
	isBase64 := false
	for _, p := range params[1:] {
		if strings.EqualFold(strings.TrimSpace(p), "base64") {
			isBase64 = true
		}
	}
	if !isBase64 {
		return Audio{}, item.NewValidationError(ctx, "voice memo must be base64 encoded")
	}
	if !isAudioType(declared) {
		return Audio{}, item.NewValidationError(ctx, "voice memo must have an audio MIME type")
	}

	if maxBytes > 0 && base64.StdEncoding.DecodedLen(len(payload)) > maxBytes+2 {
		return Audio{}, item.NewValidationError(ctx, "voice memo is too large")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Audio{}, item.NewValidationError(ctx, "voice memo payload is not valid base64")
	}
	if len(data) == 0 {
		return Audio{}, item.NewValidationError(ctx, "voice memo is empty")
	}
	if maxBytes > 0 && len(data) > maxBytes {
		return Audio{}, item.NewValidationError(ctx, "voice memo is too large")
	}

	detected := mimetype.Detect(data)
	audio := Audio{MIMEType: declared, Extension: extensionFor(declared), Data: data}
	if detected.Is("application/octet-stream") {
		return audio, nil
	}
	if !isAudioType(detected.String()) {
		return Audio{}, item.NewValidationError(ctx, "voice memo content is not audio")
	}
	audio.MIMEType = detected.String()
	audio.Extension = detected.Extension()
	return audio, nil
}

func isAudioType(mime string) bool {
	base, _, _ := strings.Cut(strings.ToLower(mime), ";")
	base = strings.TrimSpace(base)
	return strings.HasPrefix(base, "audio/") || base == "video/webm" || base == "video/mp4" || base == "application/ogg"
}

func extensionFor(mime string) string {
	base, _, _ := strings.Cut(mime, ";")
	if m := mimetype.Lookup(strings.TrimSpace(base)); m != nil && m.Extension() != "" {
		return m.Extension()
	}
	return ".webm"
}
