package types

import (
	"errors"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// ErrorKind classifies fatal pipeline failures so the CLI can map them to
// exit codes without parsing messages.
type ErrorKind string

const (
	ErrorKindParse            ErrorKind = "parse"
	ErrorKindMissingField     ErrorKind = "missing_field"
	ErrorKindArtifactNotFound ErrorKind = "artifact_not_found"
	ErrorKindStructural       ErrorKind = "structural"
	ErrorKindValidation       ErrorKind = "validation"
	ErrorKindBuild            ErrorKind = "build"
	ErrorKindArchive          ErrorKind = "archive"
)

// KindError tags an errbuilder error with its ErrorKind.
type KindError struct {
	Kind ErrorKind
	Err  error
}

func (e *KindError) Error() string {
	return e.Err.Error()
}

func (e *KindError) Unwrap() error {
	return e.Err
}

func NewKindError(kind ErrorKind, code errbuilder.ErrCode, msg string, cause error) error {
	var err error
	if cause != nil {
		err = errbuilder.New().
			WithCode(code).
			WithMsg(msg).
			WithCause(cause)
	} else {
		err = errbuilder.New().
			WithCode(code).
			WithMsg(msg)
	}
	return &KindError{Kind: kind, Err: err}
}

// KindOf returns the kind of the first KindError in err's chain, or "".
func KindOf(err error) ErrorKind {
	var kindErr *KindError
	if errors.As(err, &kindErr) {
		return kindErr.Kind
	}
	return ""
}

func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}
