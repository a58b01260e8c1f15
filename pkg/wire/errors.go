package wire

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a decoder rejected its input.
type ErrorKind int

const (
	KindOther ErrorKind = iota
	// KindTruncation is returned when fewer bytes are available than a field or length prefix requires.
	KindTruncation
	// KindMalformedLength is returned when a count or length cannot be honoured, e.g. it exceeds a protocol limit.
	KindMalformedLength
	// KindInvalidEncoding is returned for strings that are not valid UTF-8 and for booleans other than 0 or 1.
	KindInvalidEncoding
	// KindNonCanonical is returned for a CompactSize that uses a longer encoding than necessary.
	KindNonCanonical
)

var (
	ErrTruncated       = errors.New("not enough bytes")
	ErrMalformedLength = errors.New("malformed length")
	ErrInvalidEncoding = errors.New("invalid encoding")
	ErrNonCanonical    = errors.New("non-canonical compact size")
	ErrDecode          = errors.New("decode failed")

	ErrUnknownCommand   = errors.New("unknown command")
	ErrChecksumMismatch = errors.New("checksum mismatch")
	ErrAuxPoWMismatch   = errors.New("block version and AuxPoW presence disagree")
)

func (k ErrorKind) String() string {
	switch k {
	case KindTruncation:
		return "truncation"
	case KindMalformedLength:
		return "malformed length"
	case KindInvalidEncoding:
		return "invalid encoding"
	case KindNonCanonical:
		return "non-canonical"
	}

	return "other"
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindTruncation:
		return ErrTruncated
	case KindMalformedLength:
		return ErrMalformedLength
	case KindInvalidEncoding:
		return ErrInvalidEncoding
	case KindNonCanonical:
		return ErrNonCanonical
	}

	return ErrDecode
}

// DecodeError is returned by every decoder in this package. Callers branch on
// Kind, or use errors.Is with the matching sentinel (ErrTruncated, ...).
type DecodeError struct {
	Kind  ErrorKind
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Field, e.Kind.sentinel().Error())
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

func (e *DecodeError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.sentinel()}
	}

	return []error{e.Kind.sentinel(), e.Err}
}

// KindOf returns the kind of the first DecodeError found in err's chain.
func KindOf(err error) ErrorKind {
	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) {
		return decodeErr.Kind
	}

	return KindOther
}

func truncated(field string, need, have int) error {
	return &DecodeError{
		Kind:  KindTruncation,
		Field: field,
		Err:   fmt.Errorf("need %d bytes, have %d", need, have),
	}
}

func malformedLength(field string, err error) error {
	return &DecodeError{Kind: KindMalformedLength, Field: field, Err: err}
}

func invalidEncoding(field string, err error) error {
	return &DecodeError{Kind: KindInvalidEncoding, Field: field, Err: err}
}
