package service

import "errors"

var (
	// ErrAuthUnavailable means every credential strategy was exhausted.
	// Fatal for the tenant run only when raised for the tenant-admin
	// resolution, otherwise the enclosing event is skipped.
	ErrAuthUnavailable = errors.New("no usable credentials")

	// ErrMediaTooLarge means the transcription provider rejected the
	// payload by size. The job state stays NONE so a later run retries
	// with the same media.
	ErrMediaTooLarge = errors.New("media exceeds transcription size ceiling")

	// ErrMissingHost means the meeting host has no matching directory
	// user, the meeting is skipped entirely.
	ErrMissingHost = errors.New("no directory user for meeting host")
)
