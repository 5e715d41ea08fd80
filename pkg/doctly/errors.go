// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package doctly

// Kind classifies where in the upload → poll → download sequence a
// conversion failed.
type Kind int

const (
	KindUpload Kind = iota + 1
	KindEmptyResponse
	KindMissingID
	KindProcessingFailed
	KindTimeout
	KindStatusCheck
	KindMissingDownloadURL
	KindDownload
)

var kindNames = map[Kind]string{
	KindUpload:             "upload",
	KindEmptyResponse:      "empty_response",
	KindMissingID:          "missing_id",
	KindProcessingFailed:   "processing_failed",
	KindTimeout:            "timeout",
	KindStatusCheck:        "status_check",
	KindMissingDownloadURL: "missing_download_url",
	KindDownload:           "download",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Error is the only error type returned by conversion calls. Message is the
// human-readable description; Err, when set, is the transport or decode
// failure that caused it.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind when target carries no message, so
// the Err* sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Message == "" {
		return t.Kind == e.Kind
	}
	return t.Kind == e.Kind && t.Message == e.Message
}

// Sentinels for errors.Is.
var (
	ErrUpload             = &Error{Kind: KindUpload}
	ErrEmptyResponse      = &Error{Kind: KindEmptyResponse}
	ErrMissingID          = &Error{Kind: KindMissingID}
	ErrProcessingFailed   = &Error{Kind: KindProcessingFailed}
	ErrTimeout            = &Error{Kind: KindTimeout}
	ErrStatusCheck        = &Error{Kind: KindStatusCheck}
	ErrMissingDownloadURL = &Error{Kind: KindMissingDownloadURL}
	ErrDownload           = &Error{Kind: KindDownload}
)

func newError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}
