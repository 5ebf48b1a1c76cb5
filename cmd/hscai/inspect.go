package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/danielglinatsis/HSC-AI/internal/extract"
	"github.com/danielglinatsis/HSC-AI/internal/model"
	"github.com/danielglinatsis/HSC-AI/internal/pipeline"
)

// NewInspectCmd creates the inspect command.
func NewInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <file>...",
		Short: "Run extraction on papers without touching the corpus",
		Long: `Inspect runs the extraction pipeline on the given papers and prints what
it found: a trace of how many lines each filter dropped, and the questions
(or, with --fragments, the raw fragments before combining).

Nothing is written to the corpus. Use it to tune the layout settings in the
configuration file.

Examples:
  hscai inspect exams/2023-hsc-maths-adv.pdf
  hscai inspect --fragments --json exams/*.pdf`,
		Args: cobra.MinimumNArgs(1),
		RunE: runInspectCmd,
	}

	cmd.Flags().Bool("fragments", false, "Print raw fragments instead of combined questions")
	cmd.Flags().BoolP("json", "j", false, "Output results as JSON")

	return cmd
}

// inspection is the JSON form of one inspected file.
type inspection struct {
	File      string           `json:"file"`
	Error     string           `json:"error,omitempty"`
	Checksum  string           `json:"checksum,omitempty"`
	Steps     []string         `json:"steps"`
	StepTotal int              `json:"step_total"`
	Trace     extract.Trace    `json:"trace"`
	Fragments []model.Fragment `json:"fragments,omitempty"`
	Questions []model.Question `json:"questions,omitempty"`
}

// runInspectCmd executes the inspect command.
func runInspectCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	logger := setupLogger(cmd, cfg.Verbose)

	showFragments, err := cmd.Flags().GetBool("fragments")
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	factory, err := newPipelineFactory(cfg, logger)
	if err != nil {
		return err
	}

	files := make([]string, len(args))
	for i, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return fmt.Errorf("invalid path %q: %w", arg, err)
		}
		files[i] = abs
	}

	stepTotal := factory().StepCount()
	results := make([]inspection, len(files))
	var mu sync.Mutex
	bp := pipeline.NewBatchProcessor(factory,
		pipeline.WithConcurrency(cfg.Concurrency),
		pipeline.WithBatchLogger(logger),
	)
	err = bp.ProcessBatchWithCallback(cmd.Context(), "", files, func(job *pipeline.Job, index int) {
		mu.Lock()
		defer mu.Unlock()
		results[index] = inspectionOf(job, args[index], showFragments)
		results[index].StepTotal = stepTotal
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(out)
		}
		printInspection(out, r)
	}
	return nil
}

func inspectionOf(job *pipeline.Job, name string, withFragments bool) inspection {
	r := inspection{
		File:     name,
		Checksum: job.Checksum,
		Steps:    job.PerformedSteps,
		Trace:    job.Trace,
	}
	switch {
	case job.RenderErr != nil:
		r.Error = job.RenderErr.Error()
	case job.Err != nil:
		r.Error = job.Err.Error()
	}
	if withFragments {
		r.Fragments = job.Fragments
	} else {
		r.Questions = job.Questions
	}
	return r
}

func printInspection(out io.Writer, r inspection) {
	fmt.Fprintf(out, "== %s\n", r.File)
	fmt.Fprintf(out, "steps: %d/%d (%s)\n", len(r.Steps), r.StepTotal, strings.Join(r.Steps, ", "))
	if r.Error != "" {
		fmt.Fprintf(out, "error: %s\n", r.Error)
		if len(r.Questions) == 0 && len(r.Fragments) == 0 {
			return
		}
	}
	t := r.Trace
	fmt.Fprintf(out, "%s\n", t)
	fmt.Fprintf(out, "dropped: margin=%d scanning=%d boilerplate=%d divider=%d short=%d\n",
		t.MarginDrops, t.ScanningDrops, t.BoilerplateDrops, t.DividerDrops, t.ShortDrops)

	if r.Fragments != nil {
		for i, f := range r.Fragments {
			fmt.Fprintf(out, "\n[fragment %d, page %d, %s]\n%s\n", i+1, f.Page, extract.ClassifyLead(f.Lead()), f.Text())
		}
		return
	}
	for i, q := range r.Questions {
		fmt.Fprintf(out, "\n[question %d, page %d]\n%s\n", i+1, q.Page, q.Text)
	}
}
