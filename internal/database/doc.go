// Package database provides SQLite-based storage for the question corpus.
//
// CorpusDB implements the synchronizer's store contract and additionally
// maintains an FTS5 index over each question's retrieval content, which
// backs the lexical search command. It stores:
//   - One row per exam record with its metadata, checksum and processing time
//   - One row per question, keeping the full question object as JSON so
//     enrichment fields survive load and save
//   - The full-text index, rebuilt inside the same transaction as every save
//
// SQLite (via modernc.org/sqlite) is CGO-free and keeps the corpus in a
// single file next to the JSON alternative.
package database
