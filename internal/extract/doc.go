// Package extract turns a normalized layout document into exam questions.
//
// Extraction runs in two passes. The Extractor streams every line of a
// document through a three-state machine (Scanning, Accumulating, Stopped):
// running headers and footers are dropped by the MarginFilter, question
// starts are recognised by the Classifier from the styling and position of a
// line's first span, and body lines are filtered for boilerplate, dividers
// and noise before being appended to the open Fragment. Combine then merges
// fragments split across page or column breaks (subparts and "(continued)"
// headings) into whole questions while keeping multiple-choice items apart.
//
// All patterns are compiled once when an Extractor or Classifier is built;
// extraction itself is pure and deterministic.
package extract
