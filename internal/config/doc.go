// Package config provides the configuration for hscai: where source papers
// and the corpus live, the extractor's layout thresholds, the tagger and the
// generated revision files. Values come from defaults, the YAML file found
// by FindConfigFile, and finally CLI flags.
package config
