package itemreq

// CreateItemRequest adds a new item. An empty bucket files it under acceptance.
type CreateItemRequest struct {
	Content string `json:"content" binding:"required" validate:"required,content" example:"Finish report"`
	Bucket  string `json:"bucket,omitempty" validate:"omitempty,bucket" example:"control"`
}

// EditItemRequest replaces content and bucket.
type EditItemRequest struct {
	Content string `json:"content" binding:"required" validate:"required,content"`
	Bucket  string `json:"bucket" binding:"required" validate:"required,bucket"`
}

// MoveItemRequest moves an item to another bucket.
type MoveItemRequest struct {
	Bucket string `json:"bucket" binding:"required" validate:"required,bucket" example:"influence"`
}

// VoiceItemRequest adds an item from a recorded voice memo.
type VoiceItemRequest struct {
	Audio  string `json:"audio" binding:"required" validate:"required,startswith=data:" example:"data:audio/webm;base64,GkXfo59ChoEBQveBAULygQRC84EIQoKEd2VibUKHgQRChYECGFOAZwEAAAAAAAAA"`
	Bucket string `json:"bucket,omitempty" validate:"omitempty,bucket"`
}

// TranscriptionRequest transcribes a voice memo without adding it.
type TranscriptionRequest struct {
	Audio string `json:"audio" binding:"required" validate:"required,startswith=data:"`
}
