package tagger

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
)

// LoadSyllabus reads a syllabus JSON file and returns its topic names. The
// file is a tree of objects, for example year to major topic to minor topic
// to a list of syllabus points. The topics are the keys of the innermost
// objects, that is keys whose value is not itself an object.
func LoadSyllabus(path string) ([]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from user configuration
	if err != nil {
		return nil, fmt.Errorf("failed to read syllabus: %w", err)
	}
	return ParseSyllabus(data)
}

// ParseSyllabus returns the topic names of a syllabus document, sorted and
// without duplicates.
func ParseSyllabus(data []byte) ([]string, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse syllabus: %w", err)
	}

	var topics []string
	collectTopics(root, &topics)
	slices.Sort(topics)
	return slices.Compact(topics), nil
}

func collectTopics(node map[string]json.RawMessage, out *[]string) {
	for key, raw := range node {
		var child map[string]json.RawMessage
		if err := json.Unmarshal(raw, &child); err == nil && child != nil {
			collectTopics(child, out)
			continue
		}
		*out = append(*out, key)
	}
}
