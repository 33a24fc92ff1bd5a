package logger

// Output controls what categories of information are shown at each verbosity level.
//
// Unlike log levels (which filter by severity), output categories control
// WHAT types of information are displayed regardless of severity.
//
// Verbosity Levels:
//
//	0 (default) - Generated text, errors with hints, final status
//	1 (-v)      - + One line per written output, build summary table
//	2 (-vv)     - + Config sources, timing, outputs skipped for lack of a formatter
//	3 (-vvv)    - + Condition evaluation and id assignment dumps

// OutputCategory defines a category of output that can be enabled/disabled
type OutputCategory int

const (
	// Level 0 (default) - Always shown
	OutputResults    OutputCategory = iota // Generated header text, check verdict
	OutputErrors                           // Errors with hints and resolution steps
	OutputUserStatus                       // Final success/failure status

	// Level 1 (-v) - Informational
	OutputProgress // Per-output progress
	OutputSummary  // Build summary table

	// Level 2 (-vv) - Detailed
	OutputTiming  // Operation timing
	OutputConfig  // Config values loaded/applied
	OutputSkipped // Outputs without a registered formatter

	// Level 3 (-vvv) - Trace
	OutputIDMap    // Full textual id -> numeric id dump
	OutputDataDump // Full tree dumps
)

// categoryLevels maps each output category to its minimum verbosity level
var categoryLevels = map[OutputCategory]int{
	OutputResults:    VerbosityUser,
	OutputErrors:     VerbosityUser,
	OutputUserStatus: VerbosityUser,

	OutputProgress: VerbosityInfo,
	OutputSummary:  VerbosityInfo,

	OutputTiming:  VerbosityDebug,
	OutputConfig:  VerbosityDebug,
	OutputSkipped: VerbosityDebug,

	OutputIDMap:    VerbosityTrace,
	OutputDataDump: VerbosityTrace,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		// Unknown category, default to highest verbosity required
		return verbosity >= VerbosityTrace
	}
	return verbosity >= minLevel
}
