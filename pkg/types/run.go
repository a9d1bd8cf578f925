// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// RunStatus indicates how an extraction run ended.
type RunStatus string

const (
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// Run is one journaled extraction attempt against a single file.
type Run struct {
	// ID is a UUID assigned when the run is recorded.
	ID string `json:"id" yaml:"id"`

	// Path is the file the run read and (on success) rewrote.
	Path string `json:"path" yaml:"path"`

	// Field is the member that was projected.
	Field string `json:"field" yaml:"field"`

	Status RunStatus `json:"status" yaml:"status"`

	// Records is the number of ids written. Zero for failed runs.
	Records int `json:"records" yaml:"records"`

	// InputSHA256 is the hex digest of the bytes read, empty if the read failed.
	InputSHA256 string `json:"input_sha256,omitempty" yaml:"input_sha256,omitempty"`

	// ErrorKind is the extract error kind for failed runs.
	ErrorKind string `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`

	// Error is the error message for failed runs.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`
}
