package model

import "errors"

// Error kinds for the download pipeline. Components wrap these with
// fmt.Errorf("%w: ...") so callers can branch with errors.Is instead of
// matching printed text.
var (
	// ErrConfig covers a missing or empty API key file and unreadable
	// configuration.
	ErrConfig = errors.New("configuration error")

	// ErrParse means the manifest file is absent or not well-formed JSON.
	ErrParse = errors.New("manifest parse error")

	// ErrStructure means the manifest parsed but is missing the expected
	// Archives collection. Callers treat this as an empty result, not a
	// hard abort.
	ErrStructure = errors.New("manifest structure error")

	// ErrAPI covers a non-2xx status or unexpected content type from the
	// link resolution endpoint.
	ErrAPI = errors.New("api error")

	// ErrNoLinks means the API responded but the body was not a
	// non-empty candidate list.
	ErrNoLinks = errors.New("no download links")

	// ErrNoUsableLink means candidates were returned but none carried a
	// usable URI.
	ErrNoUsableLink = errors.New("no usable download link")

	// ErrNetwork covers transport-level failures on any request.
	ErrNetwork = errors.New("network error")

	// ErrHTTP covers a bad status on the actual file fetch.
	ErrHTTP = errors.New("http error")

	// ErrIO covers filesystem failures during the streaming write.
	ErrIO = errors.New("io error")

	// ErrInternal covers anything else unexpected.
	ErrInternal = errors.New("internal error")
)

// Stage identifies which pipeline stage an item failed in, for per-item
// outcome reporting.
type Stage int

const (
	StageResolve Stage = iota
	StageDownload
)

func (s Stage) String() string {
	switch s {
	case StageResolve:
		return "resolve"
	case StageDownload:
		return "download"
	}
	return "unknown"
}
