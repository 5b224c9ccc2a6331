package predictor

import "net/http"

// Kind is the closed set of ways a prediction request can fail. The
// boundary renders nothing but these: internal detail never reaches a
// client.
type Kind int

const (
	KindModelNotLoaded Kind = iota
	KindNoInput
	KindInvalidShape
	KindEmptyInput
	KindPreprocessFailed
	KindNoUsableRows
	KindFeatureMismatch
	KindPredictFailed
)

// String is the metrics/log label for the kind.
func (k Kind) String() string {
	switch k {
	case KindModelNotLoaded:
		return "model_not_loaded"
	case KindNoInput:
		return "no_input"
	case KindInvalidShape:
		return "invalid_shape"
	case KindEmptyInput:
		return "empty_input"
	case KindPreprocessFailed:
		return "preprocess_failed"
	case KindNoUsableRows:
		return "no_usable_rows"
	case KindFeatureMismatch:
		return "feature_mismatch"
	case KindPredictFailed:
		return "predict_failed"
	default:
		return "unknown"
	}
}

// Message is the stable client-facing reason.
func (k Kind) Message() string {
	switch k {
	case KindModelNotLoaded:
		return "model not loaded"
	case KindNoInput:
		return "no input data provided"
	case KindInvalidShape:
		return "invalid input shape"
	case KindEmptyInput:
		return "empty input"
	case KindPreprocessFailed:
		return "preprocessing failed"
	case KindNoUsableRows:
		return "preprocessing produced no usable rows"
	case KindFeatureMismatch:
		return "feature mismatch"
	case KindPredictFailed:
		return "prediction failed"
	default:
		return "internal error"
	}
}

// HTTPStatus maps the kind to its response code: client mistakes are 400,
// missing model is 503, internal failures are 500.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindModelNotLoaded:
		return http.StatusServiceUnavailable
	case KindPreprocessFailed, KindPredictFailed:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// Error is one validation-ladder failure. Detail is for server-side logs
// only; Expected/Actual are populated for feature mismatches so the client
// can see both counts without seeing column names.
type Error struct {
	Kind     Kind
	Detail   string
	Expected int
	Actual   int
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Kind.Message()
	}
	return e.Kind.Message() + ": " + e.Detail
}

func newError(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

func mismatchError(expected, actual int, detail string) *Error {
	return &Error{
		Kind:     KindFeatureMismatch,
		Detail:   detail,
		Expected: expected,
		Actual:   actual,
	}
}
