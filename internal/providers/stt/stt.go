package stt

import "context"

// Provider transcribes a complete spoken answer to text.
type Provider interface {
	Transcribe(ctx context.Context, audio []byte, language string) (text string, confidence float64, err error)
	Close() error
}
