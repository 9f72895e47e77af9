// Package logs reads the tichme log file for the `tichme logs` command.
//
// Last returns the trailing lines of the file with bounded memory, and
// Follow polls for lines appended after a byte offset until the context is
// cancelled. A Filter narrows both to the records of one import session.
package logs
