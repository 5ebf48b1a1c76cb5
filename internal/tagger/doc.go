// Package tagger enriches corpus questions with topic tags, a difficulty
// label and skill types.
//
// Two methods are available. The model method sends batches of questions to
// an OpenAI-compatible chat endpoint and requires a strict JSON reply;
// replies are cached on disk under a SHA3 digest of the prompt. The keyword
// method matches configured topic keywords against question text and is
// used when no model is configured or a request fails.
//
// Only questions without enrichment are considered. Exam, Page and Text are
// never modified.
package tagger
