package corpussync

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/danielglinatsis/HSC-AI/internal/layout"
	"github.com/danielglinatsis/HSC-AI/internal/model"
)

// Plan is the outcome of reconciling a corpus with the exam directory.
type Plan struct {
	// New lists the files that have no record yet, in directory order.
	New []string

	// Shadowed lists files skipped because their normalized name matches a
	// file that already has, or is about to get, a record.
	Shadowed []string

	// Resolved maps each record's provenance name to the filename it was
	// relabelled with. Unresolved records map to themselves.
	Resolved map[string]string
}

// Reconcile relabels every record in corpus with the source file it came
// from and works out which files still need processing.
//
// A record's provenance (see model.ExamRecord.Provenance) resolves to a file
// with exactly that name if one exists, otherwise to the first file in
// sorted order whose normalized name matches, otherwise to itself. A file
// counts as processed when a record resolved to it or when its normalized
// name is already claimed by a processed file.
func Reconcile(corpus *model.Corpus, files []string) Plan {
	sorted := slices.Clone(files)
	slices.Sort(sorted)

	exact := make(map[string]bool, len(sorted))
	byKey := make(map[string]string, len(sorted))
	for _, f := range sorted {
		exact[f] = true
		key := model.NormalizeName(f)
		if _, ok := byKey[key]; !ok {
			byKey[key] = f
		}
	}

	plan := Plan{Resolved: make(map[string]string, len(corpus.Records))}
	processed := make(map[string]bool, len(corpus.Records))
	claimed := make(map[string]bool, len(corpus.Records))

	for i := range corpus.Records {
		rec := &corpus.Records[i]
		raw := rec.Provenance()
		resolved := raw
		if !exact[raw] {
			if f, ok := byKey[model.NormalizeName(raw)]; ok {
				resolved = f
			}
		}
		rec.Relabel(resolved)
		plan.Resolved[raw] = resolved
		processed[resolved] = true
		claimed[model.NormalizeName(resolved)] = true
	}

	for _, f := range sorted {
		if processed[f] {
			continue
		}
		key := model.NormalizeName(f)
		if claimed[key] {
			plan.Shadowed = append(plan.Shadowed, f)
			continue
		}
		claimed[key] = true
		plan.New = append(plan.New, f)
	}
	return plan
}

// ListSources returns the sorted names of the regular, non-hidden files in
// dir that accept reports as processable. A missing directory is created and
// has no sources.
func ListSources(dir string, accept func(name string) bool) ([]string, error) {
	if accept == nil {
		accept = layout.IsSourceFile
	}

	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create exam directory: %w", err)
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read exam directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") || !accept(e.Name()) {
			continue
		}
		files = append(files, e.Name())
	}
	slices.Sort(files)
	return files, nil
}
