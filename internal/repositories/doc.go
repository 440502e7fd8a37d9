// Package repositories implements SQLite persistence for play history.
//
// [PlayRepository] writes one row per sync cycle and reads recent rows back for
// `lyrx history`. The schema lives in the shared package's embedded migrations;
// callers open the database with shared.OpenHistory.
package repositories
