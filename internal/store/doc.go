// Package store persists recorded Tichu games in SQLite and exposes the
// query surface used by the CLI and the gap query.
//
// The Store owns the database connection, schema initialization and busy
// retry handling. Writers go through WithTx, which hands a Tx to the caller
// and commits only when the callback succeeds, so a game is either recorded
// whole or not at all. Players and cards are shared across games and are
// resolved by natural key; everything else is owned by its game and
// cascades when the game is deleted.
//
// Schema changes bump schemaVersion in schema.go; an older database is
// rejected with ErrSchemaMismatch rather than migrated.
package store
