package config

import (
	"github.com/evcon/evcon/internal/config/data"
)

// DefaultRefreshRate is the default auto refresh interval in seconds.
const DefaultRefreshRate = 5.0

// DefaultLogLevel is the default logging level.
const DefaultLogLevel = "info"

// NewFlags creates a new Flags instance with default values set.
func NewFlags() *data.Flags {
	refreshRate := float32(DefaultRefreshRate)
	logLevel := DefaultLogLevel
	logFile := ""
	command := ""
	readOnly := false
	write := false
	tenant := ""
	exportTo := ""

	return &data.Flags{
		RefreshRate: &refreshRate,
		LogLevel:    &logLevel,
		LogFile:     &logFile,
		Command:     &command,
		ReadOnly:    &readOnly,
		Write:       &write,
		Tenant:      &tenant,
		ExportTo:    &exportTo,
	}
}

// IsBoolSet returns true if a bool pointer is non-nil and true.
func IsBoolSet(b *bool) bool {
	return b != nil && *b
}

// IsStringSet returns true if a string pointer is non-nil and non-empty.
func IsStringSet(s *string) bool {
	return s != nil && *s != ""
}
