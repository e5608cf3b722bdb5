package sip

import "fmt"

// ErrorKind enumerates the error taxonomy from spec §7. Every public parse
// entry point returns a *ParseError carrying one of these.
type ErrorKind int

const (
	ErrInvalidURI ErrorKind = iota
	ErrInvalidURIParameter
	ErrDuplicatedURIParameters
	ErrInvalidHeader
	ErrInvalidMethod
	ErrInvalidStatusCode
	ErrInvalidVersion
	ErrInvalidReason
	ErrInvalidMessage
	ErrInvalidRequest
	ErrInvalidResponse
	ErrRemainingUnparsedData
	ErrFailedConvertingAInfo
)

func (k ErrorKind) String() string {
	switch k {
	case ErrInvalidURI:
		return "InvalidUri"
	case ErrInvalidURIParameter:
		return "InvalidUriParameter"
	case ErrDuplicatedURIParameters:
		return "DuplicatedUriParameters"
	case ErrInvalidHeader:
		return "InvalidHeader"
	case ErrInvalidMethod:
		return "InvalidMethod"
	case ErrInvalidStatusCode:
		return "InvalidStatusCode"
	case ErrInvalidVersion:
		return "InvalidVersion"
	case ErrInvalidReason:
		return "InvalidReason"
	case ErrInvalidMessage:
		return "InvalidMessage"
	case ErrInvalidRequest:
		return "InvalidRequest"
	case ErrInvalidResponse:
		return "InvalidResponse"
	case ErrRemainingUnparsedData:
		return "RemainingUnparsedData"
	case ErrFailedConvertingAInfo:
		return "FailedConvertingAInfoToAuthParam"
	default:
		return "Unknown"
	}
}

// ParseError is the single error type every public parse entry point
// returns. Display is a single-line message safe for logs: it never embeds
// the full input, only the offending substring and an offset.
type ParseError struct {
	Kind   ErrorKind
	Rule   string // grammar rule that failed, for diagnosis only
	Offset int     // byte offset into the input the caller supplied
	Name   string  // header name, when Kind == ErrInvalidHeader
	Detail string  // offending substring or short message
	Cause  error
}

func (e *ParseError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("sip: %s %q: %s (at %d): %s", e.Kind, e.Name, e.Rule, e.Offset, e.Detail)
	}
	return fmt.Sprintf("sip: %s: %s (at %d): %s", e.Kind, e.Rule, e.Offset, e.Detail)
}

func (e *ParseError) Unwrap() error { return e.Cause }

func newParseError(kind ErrorKind, rule string, offset int, detail string) *ParseError {
	return &ParseError{Kind: kind, Rule: rule, Offset: offset, Detail: detail}
}

func newHeaderError(name, rule string, offset int, detail string) *ParseError {
	return &ParseError{Kind: ErrInvalidHeader, Name: name, Rule: rule, Offset: offset, Detail: detail}
}
