package types

import "errors"

// Pipeline error taxonomy. Handlers map these to HTTP statuses with errors.Is;
// everything else becomes a generic 500.
var (
	ErrInvalidBase64       = errors.New("invalid Base64 encoding")
	ErrEmptyAudio          = errors.New("empty audio data")
	ErrDecode              = errors.New("audio decode failed")
	ErrUnsupportedFormat   = errors.New("unsupported audio format")
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrInference           = errors.New("model inference failed")
)
