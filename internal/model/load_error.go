package model

import (
	"github.com/evcon/evcon/internal/central"
)

// LoadError is reported to listeners when a foreground load fails.
type LoadError struct {
	Kind    central.Kind
	Message string
	Err     error
}

func newLoadError(err error, title string) *LoadError {
	fallback := "Unable to load data"
	if title != "" {
		fallback = "Unable to load " + title
	}

	return &LoadError{
		Kind:    central.Classify(err),
		Message: central.Message(err, fallback),
		Err:     err,
	}
}

func (e *LoadError) Error() string {
	return e.Message + ": " + e.Err.Error()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
