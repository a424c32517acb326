package ingest

import "fmt"

// Kind classifies a stage failure.
type Kind int

const (
	// KindRetriable marks a failure worth re-running the whole task for:
	// transient I/O, throttling, storage conflicts.
	KindRetriable Kind = iota + 1

	// KindFatal marks a failure retrying cannot fix: bad credentials,
	// a document the model cannot be made to parse, invalid input.
	KindFatal
)

func (k Kind) String() string {
	switch k {
	case KindRetriable:
		return "retriable"
	case KindFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// StageError is a typed stage outcome. The orchestrator uses Kind to decide
// between retrying the task and dropping the document.
type StageError struct {
	Stage string
	Kind  Kind
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage (%s): %v", e.Stage, e.Kind, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func retriable(stage string, err error) *StageError {
	return &StageError{Stage: stage, Kind: KindRetriable, Err: err}
}

func fatal(stage string, err error) *StageError {
	return &StageError{Stage: stage, Kind: KindFatal, Err: err}
}

// Report summarizes one session ingestion.
type Report struct {
	SessionID     string
	Segments      int
	Statements    int
	Bills         int
	Votes         int
	Placeholders  int
	LowConfidence bool
}
