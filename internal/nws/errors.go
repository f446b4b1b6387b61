package nws

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors for the API gateway and response decoding.
// Callers classify failures with errors.Is.
var (
	// ErrNetwork covers transport failures and non-2xx responses.
	ErrNetwork = constError("network request failed")

	// ErrNotText means the response body is not valid UTF-8 text.
	ErrNotText = constError("response body is not text")

	// ErrMalformedJSON means a response body could not be parsed as JSON.
	ErrMalformedJSON = constError("malformed JSON")

	// ErrMissingField means a required field is absent or null.
	ErrMissingField = constError("missing required field")

	// ErrWrongType means a field is present but has an unexpected JSON type.
	ErrWrongType = constError("field has wrong type")

	// ErrInvalidCoordinates means a latitude/longitude pair could not be used.
	ErrInvalidCoordinates = constError("invalid coordinates")
)
