package securecore

import (
	"errors"
	"fmt"
)

// Kind is one of the five error categories the top-level design calls for:
// everything either engine returns belongs to exactly one of these, never a
// bespoke ad hoc kind.
type Kind uint8

const (
	// KindInput covers a missing file, a path that is too long, an unsafe
	// output directory, or a passphrase that fails a caller policy.
	KindInput Kind = iota
	// KindCrypto covers any AEAD verification failure, hash mismatch, or
	// key-unwrap failure. Presented as one indistinguishable kind.
	KindCrypto
	// KindFormat covers malformed manifest JSON, an unreadable sentinel, or
	// an unknown format version.
	KindFormat
	// KindIO covers a read/write/rename/fsync failure surfaced by the OS.
	KindIO
	// KindConflict covers a sentinel that is present and not reusable —
	// refusal to double-encrypt a folder.
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindCrypto:
		return "crypto"
	case KindFormat:
		return "format"
	case KindIO:
		return "io"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Error is the one error type both engines return. Message is what a
// caller sees; reason is an internal diagnostic annotation (integrity,
// malformed, wrong-key, …) that exists for logging only and MUST NOT be
// surfaced in Error() for KindCrypto — leaking it would build a
// distinguishing oracle for an adversarial caller.
type Error struct {
	Kind    Kind
	Path    string // file or folder path, if applicable
	Message string
	reason  string // internal-only, never rendered for KindCrypto
	Err     error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Path, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Reason returns the internal diagnostic annotation for logging. Never log
// this anywhere a caller-facing message is constructed from it.
func (e *Error) Reason() string {
	return e.reason
}

// NewInputError builds a KindInput error.
func NewInputError(path, message string) error {
	return &Error{Kind: KindInput, Path: path, Message: message}
}

// NewCryptoError builds the single indistinguishable KindCrypto error.
// reason is an internal annotation (e.g. "hash-mismatch", "tag-failure",
// "unwrap-context-mismatch") for logs only; it never appears in Error().
func NewCryptoError(path, reason string, err error) error {
	return &Error{
		Kind:    KindCrypto,
		Path:    path,
		Message: "cryptographic verification failed",
		reason:  reason,
		Err:     err,
	}
}

// NewFormatError builds a KindFormat error.
func NewFormatError(path, message string, err error) error {
	return &Error{Kind: KindFormat, Path: path, Message: message, Err: err}
}

// NewIOError builds a KindIO error, carrying the offending path.
func NewIOError(op, path string, err error) error {
	return &Error{
		Kind:    KindIO,
		Path:    path,
		Message: fmt.Sprintf("%s failed", op),
		Err:     err,
	}
}

// NewConflictError builds a KindConflict error.
func NewConflictError(path, message string) error {
	return &Error{Kind: KindConflict, Path: path, Message: message}
}

// Is reports whether err is a securecore Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}
