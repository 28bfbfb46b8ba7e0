// Package hooks implements the three hook stages: session start, activity
// recording and diary synthesis. Stages communicate only through the
// session file and report what they did as an Outcome.
package hooks

import (
	"context"
	"fmt"
)

// Status is the result class of a stage invocation.
type Status string

const (
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
	StatusCompleted Status = "completed"
)

// Reason explains a skipped stage.
type Reason string

const (
	ReasonMalformedPayload Reason = "malformed_payload"
	ReasonToolNotLogged    Reason = "tool_not_logged"
	ReasonPathExcluded     Reason = "path_excluded"
	ReasonNoSessionFile    Reason = "no_session_file"
	ReasonTooFewRecords    Reason = "too_few_records"
	ReasonGenerationFailed Reason = "generation_failed"
)

// Outcome is what a stage did.
type Outcome struct {
	Status Status
	Reason Reason
	// Artifact is the file written or appended to.
	Artifact string
	// Err is the cause of a failure, or of a skip when there is one.
	Err error
}

// Skipped reports that the stage intentionally did nothing.
func Skipped(reason Reason) Outcome {
	return Outcome{Status: StatusSkipped, Reason: reason}
}

// Failed reports an error the stage could not recover from.
func Failed(err error) Outcome {
	return Outcome{Status: StatusFailed, Err: err}
}

// Completed reports the artifact the stage produced.
func Completed(artifact string) Outcome {
	return Outcome{Status: StatusCompleted, Artifact: artifact}
}

// withErr attaches the cause of a skip.
func (o Outcome) withErr(err error) Outcome {
	o.Err = err
	return o
}

func (o Outcome) String() string {
	switch o.Status {
	case StatusSkipped:
		return fmt.Sprintf("skipped (%s)", o.Reason)
	case StatusFailed:
		return fmt.Sprintf("failed: %v", o.Err)
	case StatusCompleted:
		return fmt.Sprintf("completed: %s", o.Artifact)
	}
	return string(o.Status)
}

// Stage is one hook. Run consumes the raw stdin payload.
type Stage interface {
	Run(ctx context.Context, payload []byte) Outcome
}
