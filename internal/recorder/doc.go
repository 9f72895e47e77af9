// Package recorder writes a parsed game into the store.
//
// Record validates the whole description first, then writes it inside a
// single transaction: the duplicate check by source URL, the game with its
// teams and seats, and every round with its deals, exchanges, declarations,
// wish, finish order and scores. A game is recorded whole or not at all,
// and recording a URL twice is a no-op that reports Duplicate.
package recorder
