package fpcommits

import (
	"errors"
	"fmt"

	"github.com/exitflynn/fpcommits/internal/api"
)

// ErrorKind identifies why a fetch failed. Every kind is distinct and stable;
// ErrorKind values are also errors so they can be matched with errors.Is.
type ErrorKind int

const (
	_ ErrorKind = iota

	InvalidRepositoryType
	InvalidMaxType
	InvalidUserAgentType
	MaxBelowMinimum
	EmptyUserAgent
	InvalidFromType
	EmptyFrom
	EmptyRepository
	EmptyPage
	Transport
	Decode
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidRepositoryType:
		return "InvalidRepositoryType"
	case InvalidMaxType:
		return "InvalidMaxType"
	case InvalidUserAgentType:
		return "InvalidUserAgentType"
	case MaxBelowMinimum:
		return "MaxBelowMinimum"
	case EmptyUserAgent:
		return "EmptyUserAgent"
	case InvalidFromType:
		return "InvalidFromType"
	case EmptyFrom:
		return "EmptyFrom"
	case EmptyRepository:
		return "EmptyRepository"
	case EmptyPage:
		return "EmptyPage"
	case Transport:
		return "TransportError"
	case Decode:
		return "DecodeError"
	case 0:
		return "<INVALID>"
	default:
		return "<UNKNOWN>"
	}
}

func (k ErrorKind) Error() string { return k.String() }

// ValidationError rejects options before any request is made.
type ValidationError struct {
	Kind  ErrorKind
	Field string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case InvalidRepositoryType, InvalidMaxType, InvalidUserAgentType, InvalidFromType:
		return fmt.Sprintf("invalid options: %s has the wrong type (%s)", e.Field, e.Kind)
	case MaxBelowMinimum:
		return fmt.Sprintf("invalid options: %s must be at least 1 (%s)", e.Field, e.Kind)
	default:
		return fmt.Sprintf("invalid options: %s must not be empty (%s)", e.Field, e.Kind)
	}
}

func (e *ValidationError) Is(target error) bool {
	k, ok := target.(ErrorKind)
	return ok && k == e.Kind
}

// UpstreamError is a well-formed response that cannot satisfy the request:
// a repository without commits or a page without results.
type UpstreamError struct {
	Kind       ErrorKind
	Repository string
	Page       int
}

func (e *UpstreamError) Error() string {
	if e.Kind == EmptyRepository {
		return fmt.Sprintf("repository %q has no commits (%s)", e.Repository, e.Kind)
	}
	return fmt.Sprintf("page %d of repository %q has no results (%s)", e.Page, e.Repository, e.Kind)
}

func (e *UpstreamError) Is(target error) bool {
	k, ok := target.(ErrorKind)
	return ok && k == e.Kind
}

// TransportError and DecodeError are returned as produced by the HTTP layer.
type (
	TransportError = api.TransportError
	DecodeError    = api.DecodeError
)

// KindOf reports the ErrorKind carried by err, or 0 when err did not come
// from this package.
func KindOf(err error) ErrorKind {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Kind
	}
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.Kind
	}
	var te *TransportError
	if errors.As(err, &te) {
		return Transport
	}
	var de *DecodeError
	if errors.As(err, &de) {
		return Decode
	}
	return 0
}
