// Package preflight provides readiness checks for the directories and the
// optional remote text source that a review session depends on.
//
// These checks run in two contexts:
//   - `skyreview serve` runs RunAll at startup and logs a warning for each
//     failed check; a failed check never stops the server.
//   - `skyreview progress` renders every result as a status line.
//
// The remote text check is skipped when no base URL is configured.
package preflight
