// Package preflight provides readiness checks for the filesystem paths that
// tichme depends on.
//
// The CLI "tichme config validate" command runs RunAll after the
// configuration itself validates, so a missing or read-only data directory
// is reported before an import tries to open the database there.
package preflight
