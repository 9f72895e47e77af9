// Package tichu holds the vocabulary shared by the parser, the recorder and
// the store: seat positions, declaration kinds, deal phases, the error
// taxonomy and the context helpers that stamp import sessions for logging.
//
// Keep this package free of dependencies on the rest of the module so every
// layer can import it.
package tichu
