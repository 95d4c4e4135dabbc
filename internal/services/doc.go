// Package services defines shared utilities consumed across the clipmark
// core and its external tool integrations.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper that keep failure
//     classification uniform between interactive operations and export jobs.
//   - The Kind helper used by the CLI and outcome records to present a
//     stable short name per failure class.
//
// Use these helpers when wiring new operations so error handling stays
// consistent with the taxonomy the rest of the tool reports.
package services
