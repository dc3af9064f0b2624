package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies pipeline failures so callers can decide between
// retrying a stage, retrying the whole import, or surfacing the failure.
type ErrorKind string

const (
	// ErrKindSourceUnavailable: the upstream fetch or actor run failed
	// outright. The pipeline does not retry; the caller may re-run the import.
	ErrKindSourceUnavailable ErrorKind = "source_unavailable"
	// ErrKindTimeout: the actor polling loop exhausted its wall-clock budget.
	// Distinct from SourceUnavailable so the caller can re-poll with a fresh
	// budget instead of resubmitting the job.
	ErrKindTimeout ErrorKind = "timeout"
	// ErrKindGenerationPrecondition: the refine call was invoked before a base
	// configuration existed. Local validation failure, not a network error.
	ErrKindGenerationPrecondition ErrorKind = "generation_precondition"
	// ErrKindEmptyExtraction: cleaning and extraction completed but produced
	// no usable facts to generate from. The source answered; it just held
	// nothing, so re-fetching the same URL will not help.
	ErrKindEmptyExtraction ErrorKind = "empty_extraction"
)

// PipelineError carries a kind plus human-readable detail. Only the
// network-facing stages produce these; cleaning and extraction degrade to
// partial output instead of failing.
type PipelineError struct {
	Kind   ErrorKind
	Detail string
	Err    error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *PipelineError) Unwrap() error { return e.Err }

func SourceUnavailable(detail string, err error) error {
	return &PipelineError{Kind: ErrKindSourceUnavailable, Detail: detail, Err: err}
}

func TimeoutError(detail string, err error) error {
	return &PipelineError{Kind: ErrKindTimeout, Detail: detail, Err: err}
}

func PreconditionViolation(detail string) error {
	return &PipelineError{Kind: ErrKindGenerationPrecondition, Detail: detail}
}

func EmptyExtraction(detail string) error {
	return &PipelineError{Kind: ErrKindEmptyExtraction, Detail: detail}
}

// KindOf returns the pipeline error kind, or "" for plain errors.
func KindOf(err error) ErrorKind {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

func IsTimeout(err error) bool {
	return KindOf(err) == ErrKindTimeout
}
