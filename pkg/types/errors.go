package types

import "errors"

// Error kinds. Callers wrap these with fmt.Errorf("...: %w", ...) so the kind
// survives alongside the context (region, endpoint, needle).
var (
	// ErrNetwork is a transport-level failure reaching the cloud or scheduler API
	ErrNetwork = errors.New("network failure")

	// ErrDecode is a malformed or unexpected response shape
	ErrDecode = errors.New("decode failure")

	// ErrConfigInvalid is an unsupported or unparseable configuration value
	ErrConfigInvalid = errors.New("invalid configuration")

	// ErrJoin is a background fetch task that did not complete
	ErrJoin = errors.New("fetch task failed")

	// ErrNoMatch is a resolution query that found nothing
	ErrNoMatch = errors.New("no match")

	// ErrAmbiguous is a strict resolution query that found more than one candidate
	ErrAmbiguous = errors.New("ambiguous match")
)
