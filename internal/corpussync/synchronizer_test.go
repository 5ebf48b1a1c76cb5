package corpussync

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/danielglinatsis/HSC-AI/internal/layout/layouttest"
	"github.com/danielglinatsis/HSC-AI/internal/model"
)

type syncFixture struct {
	examDir   string
	storePath string
	store     *FileStore
	sync      *Synchronizer
}

func newSyncFixture(t *testing.T) *syncFixture {
	t.Helper()

	root := t.TempDir()
	f := &syncFixture{
		examDir:   filepath.Join(root, "exams"),
		storePath: filepath.Join(root, "data", "corpus.json"),
	}
	if err := os.MkdirAll(f.examDir, 0o750); err != nil {
		t.Fatal(err)
	}
	f.store = NewFileStore(f.storePath)
	f.sync = New(f.store, f.examDir, newFactory(t), WithLogger(discardLogger()), WithConcurrency(2))
	return f
}

func (f *syncFixture) addPaper(t *testing.T, name, year string) {
	t.Helper()
	layouttest.WriteDump(t, f.examDir, name, samplePaper(year))
}

func (f *syncFixture) storeBytes(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(f.storePath)
	if err != nil {
		t.Fatalf("failed to read store: %v", err)
	}
	return data
}

// TestSyncProcessesNewFiles tests a first run over an empty store.
func TestSyncProcessesNewFiles(t *testing.T) {
	t.Parallel()

	f := newSyncFixture(t)
	f.addPaper(t, "2022-paper.json", "2022")
	f.addPaper(t, "2023-paper.json", "2023")

	result, err := f.sync.Sync(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Written {
		t.Error("expected corpus to be written")
	}
	if len(result.Processed) != 2 {
		t.Fatalf("expected 2 processed files, got %v", result.Processed)
	}
	if result.NewQuestions() != 4 {
		t.Errorf("expected 4 new questions, got %d", result.NewQuestions())
	}

	corpus, err := f.store.Load(context.Background())
	if err != nil {
		t.Fatalf("failed to load saved corpus: %v", err)
	}
	if corpus.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", corpus.Len())
	}
	rec, ok := corpus.Lookup("2023 paper")
	if !ok {
		t.Fatal("expected record for 2023 paper")
	}
	if rec.Checksum == "" {
		t.Error("expected checksum on new record")
	}
	if rec.Metadata.Title() != "2023 Mathematics Advanced" {
		t.Errorf("unexpected metadata %v", rec.Metadata)
	}
	for _, q := range rec.Questions {
		if q.Exam != "2023-paper.json" {
			t.Errorf("question exam = %q", q.Exam)
		}
		if q.Text == "" {
			t.Error("question text must not be empty")
		}
	}
}

// TestSyncIdempotent checks that an unchanged directory leaves the store
// byte-identical and that a later addition only appends.
func TestSyncIdempotent(t *testing.T) {
	t.Parallel()

	f := newSyncFixture(t)
	f.addPaper(t, "2021-paper.json", "2021")

	if _, err := f.sync.Sync(context.Background()); err != nil {
		t.Fatalf("first sync failed: %v", err)
	}
	first := f.storeBytes(t)

	result, err := f.sync.Sync(context.Background())
	if err != nil {
		t.Fatalf("second sync failed: %v", err)
	}
	if result.Written {
		t.Error("second sync must not write")
	}
	if len(result.Processed) != 0 {
		t.Errorf("second sync processed %v", result.Processed)
	}
	if second := f.storeBytes(t); !bytes.Equal(first, second) {
		t.Error("store changed on a no-op sync")
	}

	f.addPaper(t, "2022-paper.json", "2022")
	result, err = f.sync.Sync(context.Background())
	if err != nil {
		t.Fatalf("third sync failed: %v", err)
	}
	if len(result.Processed) != 1 || result.Processed[0] != "2022-paper.json" {
		t.Errorf("expected only the new paper, got %v", result.Processed)
	}
	if result.Corpus.Len() != 2 {
		t.Errorf("expected 2 records, got %d", result.Corpus.Len())
	}
	if result.Corpus.Records[0].Exam != "2021-paper.json" {
		t.Errorf("existing record order changed: %q", result.Corpus.Records[0].Exam)
	}
}

// TestSyncNormalizedTwinIsNotReprocessed covers a processed paper and a
// second upload whose name only differs in case and separators.
func TestSyncNormalizedTwinIsNotReprocessed(t *testing.T) {
	t.Parallel()

	f := newSyncFixture(t)
	f.addPaper(t, "2023-paper.pdf", "2023")
	existing := &model.Corpus{Records: []model.ExamRecord{{
		Exam:      "2023-paper.pdf",
		Questions: []model.Question{{Exam: "2023-paper.pdf", Page: 2, Text: "Question 1"}},
	}}}
	if err := f.store.Save(context.Background(), existing); err != nil {
		t.Fatal(err)
	}
	before := f.storeBytes(t)

	f.addPaper(t, "2023 Paper.pdf", "2023")

	result, err := f.sync.Sync(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Written || len(result.Processed) != 0 {
		t.Errorf("expected no processing, got processed=%v written=%v", result.Processed, result.Written)
	}
	if len(result.Shadowed) != 1 || result.Shadowed[0] != "2023 Paper.pdf" {
		t.Errorf("expected shadowed twin, got %v", result.Shadowed)
	}
	if !bytes.Equal(before, f.storeBytes(t)) {
		t.Error("store must not change")
	}
}

// TestSyncUnreadableSource checks that a corrupt paper gets an empty record.
func TestSyncUnreadableSource(t *testing.T) {
	t.Parallel()

	f := newSyncFixture(t)
	f.addPaper(t, "2020-paper.json", "2020")
	if err := os.WriteFile(filepath.Join(f.examDir, "broken.pdf"), []byte("%PDF-1.4 truncated"), 0o600); err != nil {
		t.Fatal(err)
	}

	result, err := f.sync.Sync(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.SourceErrors) != 1 {
		t.Fatalf("expected 1 source error, got %v", result.SourceErrors)
	}
	var srcErr *SourceReadError
	if !errors.As(result.SourceErrors[0], &srcErr) || srcErr.File != "broken.pdf" {
		t.Errorf("unexpected source error %v", result.SourceErrors[0])
	}

	rec, ok := result.Corpus.Lookup("broken.pdf")
	if !ok {
		t.Fatal("expected a record for the unreadable file")
	}
	if len(rec.Questions) != 0 {
		t.Errorf("expected no questions, got %d", len(rec.Questions))
	}
	if !result.Written {
		t.Error("expected corpus to be written")
	}

	// The empty record marks the file as processed.
	again, err := f.sync.Sync(context.Background())
	if err != nil {
		t.Fatalf("second sync failed: %v", err)
	}
	if again.Written {
		t.Error("unreadable file must not be retried")
	}
}

// TestSyncUnreadableStore checks that a corrupt store starts a fresh corpus.
func TestSyncUnreadableStore(t *testing.T) {
	t.Parallel()

	f := newSyncFixture(t)
	f.addPaper(t, "2019-paper.json", "2019")
	if err := os.MkdirAll(filepath.Dir(f.storePath), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(f.storePath, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	result, err := f.sync.Sync(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.LoadError == nil {
		t.Fatal("expected load error to be recorded")
	}
	if result.LoadError.Store != f.storePath {
		t.Errorf("load error store = %q", result.LoadError.Store)
	}
	if !result.Written || result.Corpus.Len() != 1 {
		t.Errorf("expected fresh corpus with 1 record, written=%v len=%d", result.Written, result.Corpus.Len())
	}
	if _, err := f.store.Load(context.Background()); err != nil {
		t.Errorf("store should be readable after rebuild: %v", err)
	}
}

// TestSyncStoreWriteFailure checks that a failed save is a run failure that
// still returns the in-memory corpus.
func TestSyncStoreWriteFailure(t *testing.T) {
	t.Parallel()

	examDir := t.TempDir()
	layouttest.WriteDump(t, examDir, "2024-paper.json", samplePaper("2024"))

	diskFull := errors.New("no space left on device")
	store := &memStore{saveErr: diskFull}
	s := New(store, examDir, newFactory(t), WithLogger(discardLogger()))

	result, err := s.Sync(context.Background())
	var writeErr *StoreWriteError
	if !errors.As(err, &writeErr) {
		t.Fatalf("expected StoreWriteError, got %v", err)
	}
	if !errors.Is(err, diskFull) {
		t.Errorf("expected wrapped cause, got %v", err)
	}
	if writeErr.Store != "memory" {
		t.Errorf("store = %q", writeErr.Store)
	}
	if result == nil || result.Corpus.Len() != 1 {
		t.Fatal("expected in-memory corpus in result")
	}
	if result.Written {
		t.Error("written must be false")
	}
}

// TestSyncLoadFailureWithMemStore checks the load error path with a fake
// store.
func TestSyncLoadFailureWithMemStore(t *testing.T) {
	t.Parallel()

	examDir := t.TempDir()
	store := &memStore{loadErr: errors.New("decode failure")}
	s := New(store, examDir, newFactory(t), WithLogger(discardLogger()))

	result, err := s.Sync(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var readErr *StoreReadError
	if !errors.As(result.LoadError, &readErr) {
		t.Errorf("expected StoreReadError, got %v", result.LoadError)
	}
	if store.saves != 0 {
		t.Error("nothing new, nothing saved")
	}
}

// TestSyncCancelledBeforeSave checks that a cancelled run does not save.
func TestSyncCancelledBeforeSave(t *testing.T) {
	t.Parallel()

	examDir := t.TempDir()
	layouttest.WriteDump(t, examDir, "2018-paper.json", samplePaper("2018"))
	store := &memStore{}
	s := New(store, examDir, newFactory(t), WithLogger(discardLogger()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Sync(ctx); err == nil {
		t.Fatal("expected cancellation error")
	}
	if store.saves != 0 {
		t.Error("cancelled sync must not save")
	}
}

// TestSyncSourceFilter checks that filtered entries are neither sources nor
// new files.
func TestSyncSourceFilter(t *testing.T) {
	t.Parallel()

	examDir := t.TempDir()
	layouttest.WriteDump(t, examDir, "2019-paper.json", samplePaper("2019"))
	layouttest.WriteDump(t, examDir, "2020-notes.json", samplePaper("2020"))

	store := &memStore{}
	s := New(store, examDir, newFactory(t),
		WithLogger(discardLogger()),
		WithSourceFilter(func(name string) bool {
			return filepath.Ext(name) == ".json" && name != "2020-notes.json"
		}),
	)

	result, err := s.Sync(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Sources) != 1 || len(result.Processed) != 1 {
		t.Fatalf("expected one source processed, got sources=%v processed=%v", result.Sources, result.Processed)
	}
	if _, ok := result.Corpus.Lookup("2020 notes"); ok {
		t.Error("filtered file must not be added")
	}
}
