// Package importer feeds transcript files through the parser and recorder.
//
// LoadSources turns file and directory arguments into Sources carrying the
// transcript text, a file:// URL and, when the title line names one, the
// session date. Importer.Import records a batch under an exclusive file
// lock next to the database, so two imports against the same store never
// interleave. A failing source is logged and collected in the Summary; it
// never aborts the rest of the batch.
package importer
