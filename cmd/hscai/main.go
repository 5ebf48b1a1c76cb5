// Package main provides the entry point for the hscai CLI.
//
// hscai turns a directory of HSC exam papers into a persisted corpus of
// questions and offers search, tagging and revision PDF generation on top
// of it.
//
// Usage:
//
//	hscai sync
//	hscai search "integration by substitution" --pdf
//	hscai questions 2023-hsc-maths-adv.pdf 11
//
// See --help for all available options.
package main

// main is the entry point for hscai.
func main() {
	Execute()
}
