package domain

import "errors"

// Analysis failure kinds. Providers and the normalizer wrap the underlying
// cause together with one of these, e.g. fmt.Errorf("%w: %w", ErrProvider, err).
var (
	ErrEncoding          = errors.New("document could not be read")
	ErrConfiguration     = errors.New("analysis provider is not configured")
	ErrProvider          = errors.New("analysis provider returned no usable content")
	ErrMalformedResponse = errors.New("analysis response is not valid JSON")
)

var (
	ErrNotFound            = errors.New("resource not found")
	ErrSlotNotFound        = errors.New("storage slot not found")
	ErrInvalidLanguage     = errors.New("invalid language; allowed: ar, en, fr")
	ErrInvalidTheme        = errors.New("invalid theme; allowed: light, dark")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrUnknownProvider     = errors.New("unknown analysis provider")
	ErrUnknownBackend      = errors.New("unknown storage backend")
)

// IsAnalysisFailure reports whether err is one of the analysis failure kinds.
func IsAnalysisFailure(err error) bool {
	return FailureKind(err) != ""
}

// FailureKind names the analysis failure kind carried by err, or "" if none.
func FailureKind(err error) string {
	switch {
	case errors.Is(err, ErrEncoding):
		return "encoding"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrProvider):
		return "provider"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed_response"
	default:
		return ""
	}
}
