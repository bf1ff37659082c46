// Package data provides configuration data types for the evcon application.
package data

// Flags represents CLI command-line flags for the evcon application.
type Flags struct {
	RefreshRate *float32 // Auto refresh interval in seconds
	LogLevel    *string  // Log level (e.g., debug, info, warn, error)
	LogFile     *string  // Path to log file
	Command     *string  // Startup view
	ReadOnly    *bool    // Run in read-only mode
	Write       *bool    // Enable write operations
	Tenant      *string  // Tenant to connect to
	ExportTo    *string  // Export destination, a directory or s3://bucket/prefix
}

// UI represents user interface configuration settings.
type UI struct {
	EnableMouse bool `yaml:"enableMouse"`
	Crumbsless  bool `yaml:"crumbsless"`
	NoIcons     bool `yaml:"noIcons"`
}

// Logger represents logging configuration settings.
type Logger struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}

// Export represents the export destination settings.
type Export struct {
	// Destination is a local directory or s3://bucket/prefix.
	Destination string `yaml:"destination,omitempty"`
	// Profile and Region select the AWS shared config used for S3 destinations.
	Profile string `yaml:"awsProfile,omitempty"`
	Region  string `yaml:"awsRegion,omitempty"`
}

// Grid represents table settings.
type Grid struct {
	PageSize int    `yaml:"pageSize"`
	Debounce string `yaml:"debounce"`
}

// Grid configuration constants.
const (
	DefaultPageSize = 50
	DefaultDebounce = "500ms"
)

// NewFlags creates a new Flags instance with all pointer fields initialized.
// All pointers are allocated but their values are not set.
func NewFlags() *Flags {
	return &Flags{
		RefreshRate: new(float32),
		LogLevel:    new(string),
		LogFile:     new(string),
		Command:     new(string),
		ReadOnly:    new(bool),
		Write:       new(bool),
		Tenant:      new(string),
		ExportTo:    new(string),
	}
}
