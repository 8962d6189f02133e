package speech

import "context"

// Bridge is the availability seam over the speech backend, mirroring
// the analysis backend split: the live client when an API key is
// configured, the stand-in otherwise.
type Bridge interface {
	Transcribe(ctx context.Context, audio []byte, languageCode string) (string, error)
	Synthesize(ctx context.Context, text, languageCode string) ([]byte, error)
}

// StandinBridge lets the voice pipeline be exercised without live
// credentials: transcription returns a fixed illustrative question and
// synthesis returns no audio.
type StandinBridge struct{}

func NewStandinBridge() *StandinBridge { return &StandinBridge{} }

func (*StandinBridge) Transcribe(ctx context.Context, audio []byte, languageCode string) (string, error) {
	return "What are the key obligations in this document?", nil
}

func (*StandinBridge) Synthesize(ctx context.Context, text, languageCode string) ([]byte, error) {
	return nil, nil
}
