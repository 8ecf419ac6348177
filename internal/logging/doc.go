// Package logging builds the slog loggers used for diagnostics.
//
// User-facing progress lines are not logs; they travel through the download
// manager's ProgressEvent callback. Loggers here carry the diagnostic detail
// (subprocess arguments, timings, run IDs) and default to warnings only.
package logging
