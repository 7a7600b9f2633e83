package voice

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focusframe-server/internal/domain/item"
)

func wavBytes() []byte {
	header := []byte("RIFF\x24\x00\x00\x00WAVEfmt \x10\x00\x00\x00\x01\x00\x01\x00\x44\xac\x00\x00\x88\x58\x01\x00\x02\x00\x10\x00data\x00\x00\x00\x00")
	return append(header, make([]byte, 64)...)
}

func opaqueBytes() []byte {
	return []byte{0x11, 0x00, 0x22, 0x00, 0x33, 0x00, 0x44, 0x00}
}

func dataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func TestParseDataURIDetectsAudio(t *testing.T) {
	audio, err := ParseDataURI(context.Background(), dataURI("audio/wav", wavBytes()), 1<<20)
	require.NoError(t, err)
	assert.Equal(t, "audio/wav", audio.MIMEType)
	assert.Equal(t, ".wav", audio.Extension)
	assert.Equal(t, "voice-memo.wav", audio.FileName())
	assert.Equal(t, wavBytes(), audio.Data)
}

func TestParseDataURIKeepsDeclaredTypeForOpaquePayload(t *testing.T) {
	raw := "data:audio/webm;codecs=opus;base64," + base64.StdEncoding.EncodeToString(opaqueBytes())
	audio, err := ParseDataURI(context.Background(), raw, 1<<20)
	require.NoError(t, err)
	assert.Equal(t, "audio/webm", audio.MIMEType)
	assert.Equal(t, ".webm", audio.Extension)
}

func TestParseDataURIRejects(t *testing.T) {
	ctx := context.Background()
	cases := map[string]string{
		"not a data uri":       "https://example.com/memo.webm",
		"no payload":           "data:audio/webm;base64",
		"not base64 encoded":   "data:audio/webm," + string(opaqueBytes()),
		"non audio mime":       dataURI("image/png", opaqueBytes()),
		"broken base64":        "data:audio/webm;base64,@@@@",
		"empty payload":        "data:audio/webm;base64,",
		"content is not audio": dataURI("audio/webm", []byte("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n1 0 obj\n")),
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseDataURI(ctx, raw, 1<<20)
			assert.True(t, item.IsValidationError(err), "got %v", err)
		})
	}
}

func TestParseDataURITooLarge(t *testing.T) {
	data := append(opaqueBytes(), []byte(strings.Repeat("\x00", 2048))...)
	_, err := ParseDataURI(context.Background(), dataURI("audio/webm", data), 1024)
	assert.True(t, item.IsValidationError(err))
}
