// Package model defines the core data structures shared by the extraction
// engine, the corpus synchronizer and the downstream consumers.
//
// This package contains the following main types:
//   - Fragment: A run of lines captured by the extraction state machine
//   - Question: One exam question with its provenance and enrichment fields
//   - ExamRecord: All questions extracted from a single source document
//   - Corpus: The persisted collection of exam records
//
// Models live in their own package so that extract, corpussync, database,
// report and tagger can all share them without import cycles. Every type is
// serializable to JSON for the file store, the report writers and the
// layout inspection output.
package model
