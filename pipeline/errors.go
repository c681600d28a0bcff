package pipeline

import (
	"errors"
	"fmt"
)

// Kind classifies the failures of a run.
type Kind int

const (
	// KindInputNotFound means the input file does not exist. No output is produced.
	KindInputNotFound Kind = iota + 1
	// KindArchiveCorrupt means the input is not a readable zip archive. No output is produced.
	KindArchiveCorrupt
	// KindOutputWriteFailure means the output could not be written. The destination is left untouched.
	KindOutputWriteFailure
	// KindCanceled means the context was cancelled before the output was written.
	KindCanceled
	// KindUnexpected is any other failure, including recovered panics.
	KindUnexpected
	// KindImageDecodeOrEncodeFailure is the only per-image Kind; the image is kept as-is and the run continues.
	KindImageDecodeOrEncodeFailure
)

func (k Kind) String() string {
	switch k {
	case KindInputNotFound:
		return "input not found"
	case KindArchiveCorrupt:
		return "archive corrupt"
	case KindOutputWriteFailure:
		return "output write failure"
	case KindCanceled:
		return "canceled"
	case KindUnexpected:
		return "unexpected"
	case KindImageDecodeOrEncodeFailure:
		return "image decode or encode failure"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is the fatal error of a run.
type Error struct {
	Kind Kind
	// Path is the input or output file the error pertains to.
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf(`%s (path="%s"): %v`, e.Kind, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ImageFailure records a media entry that was kept as-is because it could not be recoded.
type ImageFailure struct {
	Name string
	Kind Kind
	Err  error
}

// KindOf returns the Kind of the first Error in err's chain, or 0 if there is none.
//
// A nil *Error, such as Outcome.Err of a successful run, has no Kind.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e.Kind
	}

	return 0
}

// IsCanceled returns true if err is an Error of KindCanceled.
func IsCanceled(err error) bool {
	return KindOf(err) == KindCanceled
}
