package resolver

import "errors"

var (
	// ErrMissingLocator indicates the request carried no primary locator. Fatal.
	ErrMissingLocator = errors.New("request has no locator")
	// ErrUnresolvedType indicates no content type could be determined for the
	// locator. Fatal.
	ErrUnresolvedType = errors.New("content type could not be resolved")
	// ErrUnsupportedType indicates the locator resolved to something that is
	// neither an image nor a video. Fatal.
	ErrUnsupportedType = errors.New("content type is not viewable")
	// ErrUnsupportedAction indicates the request action is unknown. Fatal.
	ErrUnsupportedAction = errors.New("unsupported action")
	// ErrProberUnavailable indicates no type prober is configured.
	ErrProberUnavailable = errors.New("content type prober unavailable")
)

// Fatal reports whether a resolution error terminates the session. All
// resolver failures that escape Resolve are fatal; lookup and sibling
// failures are absorbed by the fallback paths.
func Fatal(err error) bool {
	return errors.Is(err, ErrMissingLocator) ||
		errors.Is(err, ErrUnresolvedType) ||
		errors.Is(err, ErrUnsupportedType) ||
		errors.Is(err, ErrUnsupportedAction)
}
