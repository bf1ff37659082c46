package render

const (
	// Display values
	MissingValue = "<none>"
	NAValue      = "n/a"
	UnknownValue = "<unknown>"
	ZeroValue    = "0"
	Blank        = ""

	// DateFormat is the layout of timestamps in grids.
	DateFormat = "2006-01-02 15:04"
)
