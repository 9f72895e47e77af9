// Command tichme records Tichu session transcripts into a local SQLite
// database and answers questions about them.
//
// Commands:
//   - import: parse transcript files and record them, skipping known URLs
//   - parse: show what a transcript parses to without touching the database
//   - gap: print the most recent month with no recorded game
//   - stats, games, exchanges: read the recorded data back
//   - wipe: delete every recorded game
//   - logs: tail the log file, optionally for one import session
//   - config: create or validate the configuration file
package main
