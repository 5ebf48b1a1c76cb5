// Package pipeline runs the per-file extraction chain for exam papers.
//
// A source file moves through a fixed sequence of steps: render the file into
// a layout document, extract raw question fragments, combine fragments into
// questions, stamp provenance onto every question and fingerprint the source
// bytes. Each stage is a Step that receives the file's Job and fills in its
// part of it.
//
// Steps share a Job rather than passing return values so that the chain can
// be extended without changing the Pipeline, every step is logged the same
// way, and cancellation is checked between steps.
//
// Distinct files are independent, so BatchProcessor runs one pipeline per
// file concurrently with errgroup while keeping results in input order.
package pipeline
