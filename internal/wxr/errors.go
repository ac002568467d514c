package wxr

import "errors"

//go:generate go tool stringer -type=TermKind,ErrorKind -linecomment -output=kind_string.go

// ErrorCode is the stable code carried by every ParseError.
const ErrorCode = "WXR_parse_error"

// invalidVersionMessage is the text reported when the version gate rejects a document.
const invalidVersionMessage = "This does not appear to be a WXR file, missing/invalid WXR version number"

// ErrInvalidVersion matches (via errors.Is) builds rejected by the version gate.
var ErrInvalidVersion = errors.New("missing or invalid WXR version")

// ErrorKind tells the two failure sources of a build apart.
type ErrorKind int

const (
	// ErrorStream means the entity stream failed while reading the document.
	ErrorStream ErrorKind = iota // stream
	// ErrorVersion means the document carried no valid version marker.
	ErrorVersion // version
)

// ParseError is returned by Build. No aggregate accompanies it.
type ParseError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Code returns ErrorCode.
func (e *ParseError) Code() string {
	return ErrorCode
}

func newStreamError(cause error) *ParseError {
	return &ParseError{Kind: ErrorStream, Message: cause.Error(), Err: cause}
}

func newVersionError() *ParseError {
	return &ParseError{Kind: ErrorVersion, Message: invalidVersionMessage, Err: ErrInvalidVersion}
}
