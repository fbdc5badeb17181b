package procview

import "errors"

var (
	// ErrMissingParams is set when phase or role is absent.
	ErrMissingParams = errors.New("missing phase or role")

	// ErrAuthRequired is set when authentication finished without a user.
	ErrAuthRequired = errors.New("authentication required")

	// ErrFetchFailed wraps any count or list failure.
	ErrFetchFailed = errors.New("fetch failed")
)

// User-facing messages. Renderers show nothing else.
const (
	MsgMissingParams = "Phase and role parameters are required"
	MsgAuthRequired  = "Authentication required"
	MsgFetchFailed   = "Failed to load detailed data"
)

// Message maps a controller error to the text shown to the user.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingParams):
		return MsgMissingParams
	case errors.Is(err, ErrAuthRequired):
		return MsgAuthRequired
	default:
		return MsgFetchFailed
	}
}
