package service

import "fmt"

// ConfigurationError means a referenced step, template or lead does not
// exist, or campaign configuration is unusable. Not retried: the
// enrollment moves to the error state.
type ConfigurationError struct {
	EnrollmentID int
	Reason       string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error on enrollment %d: %s", e.EnrollmentID, e.Reason)
}

// DispatchError means an external channel send failed or timed out.
// Retried with backoff up to the configured attempt limit.
type DispatchError struct {
	Channel string
	Reason  string
	Timeout bool
}

func (e *DispatchError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("%s dispatch timed out: %s", e.Channel, e.Reason)
	}
	return fmt.Sprintf("%s dispatch failed: %s", e.Channel, e.Reason)
}

// PersistenceError means a repository read or write failed. Processing of
// the affected enrollment is aborted for the current pass; it stays active
// with its prior run time and is retried later.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence error during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
