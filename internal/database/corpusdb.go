package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/danielglinatsis/HSC-AI/internal/corpussync"
	"github.com/danielglinatsis/HSC-AI/internal/extract"
	"github.com/danielglinatsis/HSC-AI/internal/layout"
	"github.com/danielglinatsis/HSC-AI/internal/model"
)

// FileName is the name of the database file inside the store directory.
const FileName = "corpus.db"

// CorpusDB stores the question corpus in SQLite and keeps a full-text index
// of every question for lexical search.
//
// The corpus is always written as a whole: Save replaces every row inside a
// single transaction, so readers never see a half-written corpus.
type CorpusDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string

	// writer serializes Lock holders sharing this handle.
	writer chan struct{}

	// lockTimeout bounds how long Lock waits for another process.
	lockTimeout time.Duration
}

var _ corpussync.Store = (*CorpusDB)(nil)

// Options configures CorpusDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging so that search queries do not
	// block on a running sync.
	EnableWAL bool

	// LockTimeout bounds how long Lock waits for another process holding
	// the store. Zero means corpussync.DefaultLockTimeout.
	LockTimeout time.Duration
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a CorpusDB in dbDir.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*CorpusDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file; mode=rwc allows it.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CorpusDB{
		db:          db,
		dbPath:      dbPath,
		writer:      make(chan struct{}, 1),
		lockTimeout: opts.LockTimeout,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Close closes the database connection.
func (cdb *CorpusDB) Close() error {
	return cdb.db.Close()
}

// Location returns the database file path.
func (cdb *CorpusDB) Location() string {
	return cdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (cdb *CorpusDB) createTables() error {
	schema := `
	-- One row per processed source document, in corpus order
	CREATE TABLE IF NOT EXISTS exams (
		position INTEGER PRIMARY KEY,
		exam TEXT NOT NULL,
		metadata TEXT,
		checksum TEXT,
		processed_at TEXT
	);

	-- Questions keep their full JSON object so enrichment round-trips
	CREATE TABLE IF NOT EXISTS questions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		exam_position INTEGER NOT NULL REFERENCES exams(position),
		position INTEGER NOT NULL,
		exam TEXT NOT NULL,
		page INTEGER NOT NULL,
		text TEXT NOT NULL,
		question_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_questions_exam ON questions(exam_position, position);

	-- Lexical index over the retrieval content of each question
	CREATE VIRTUAL TABLE IF NOT EXISTS questions_fts USING fts5(
		content,
		tokenize = 'porter unicode61'
	);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// Lock acquires exclusive write access to the store from the caller's
// Load to its Save. Holders sharing this handle queue on an in-process slot;
// other handles and other processes are excluded by a lock file next to the
// database.
func (cdb *CorpusDB) Lock(ctx context.Context) (func(), error) {
	select {
	case cdb.writer <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	release, err := corpussync.LockFile(ctx, cdb.lockPath(), cdb.lockTimeout)
	if err != nil {
		<-cdb.writer
		return nil, err
	}
	return func() {
		release()
		<-cdb.writer
	}, nil
}

// lockPath returns the lock file guarding the database.
func (cdb *CorpusDB) lockPath() string {
	return cdb.dbPath + ".lock"
}

// Load reads the whole corpus. An empty database yields an empty corpus.
func (cdb *CorpusDB) Load(ctx context.Context) (*model.Corpus, error) {
	corpus := model.NewCorpus()

	positions, err := cdb.loadExams(ctx, corpus)
	if err != nil {
		return nil, err
	}
	if len(positions) == 0 {
		return corpus, nil
	}

	rows, err := cdb.db.QueryContext(ctx, `
	SELECT exam_position, question_json FROM questions
	ORDER BY exam_position, position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var pos int64
		var raw string
		if err := rows.Scan(&pos, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		idx, ok := positions[pos]
		if !ok {
			return nil, fmt.Errorf("question references unknown exam position %d", pos)
		}
		var q model.Question
		if err := json.Unmarshal([]byte(raw), &q); err != nil {
			return nil, fmt.Errorf("failed to parse question: %w", err)
		}
		corpus.Records[idx].Questions = append(corpus.Records[idx].Questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read questions: %w", err)
	}

	return corpus, nil
}

// loadExams appends every exam row to corpus and returns a map from exam
// position to record index. The rows are fully drained before returning
// because the pool holds a single connection.
func (cdb *CorpusDB) loadExams(ctx context.Context, corpus *model.Corpus) (map[int64]int, error) {
	rows, err := cdb.db.QueryContext(ctx, `
	SELECT position, exam, metadata, checksum, processed_at FROM exams
	ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query exams: %w", err)
	}
	defer rows.Close()

	positions := make(map[int64]int)
	for rows.Next() {
		var (
			pos         int64
			rec         model.ExamRecord
			metadata    sql.NullString
			checksum    sql.NullString
			processedAt sql.NullString
		)
		if err := rows.Scan(&pos, &rec.Exam, &metadata, &checksum, &processedAt); err != nil {
			return nil, fmt.Errorf("failed to scan exam: %w", err)
		}
		if metadata.Valid && metadata.String != "" {
			var md layout.Metadata
			if err := json.Unmarshal([]byte(metadata.String), &md); err != nil {
				return nil, fmt.Errorf("failed to parse metadata of %s: %w", rec.Exam, err)
			}
			rec.Metadata = md
		}
		rec.Checksum = checksum.String
		if processedAt.Valid {
			rec.ProcessedAt = parseTimestamp(processedAt.String)
		}
		rec.Questions = []model.Question{}

		positions[pos] = len(corpus.Records)
		corpus.Records = append(corpus.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read exams: %w", err)
	}
	return positions, nil
}

// Save replaces the stored corpus and rebuilds the search index in one
// transaction.
func (cdb *CorpusDB) Save(ctx context.Context, corpus *model.Corpus) (err error) {
	tx, err := cdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, stmt := range []string{
		"DELETE FROM questions_fts",
		"DELETE FROM questions",
		"DELETE FROM exams",
	} {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to clear corpus: %w", err)
		}
	}

	for pos, rec := range corpus.Records {
		if err = insertExam(ctx, tx, int64(pos), rec); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit corpus: %w", err)
	}
	return nil
}

func insertExam(ctx context.Context, tx *sql.Tx, pos int64, rec model.ExamRecord) error {
	var metadata sql.NullString
	if len(rec.Metadata) > 0 {
		data, err := json.Marshal(rec.Metadata)
		if err != nil {
			return fmt.Errorf("failed to serialize metadata of %s: %w", rec.Exam, err)
		}
		metadata = sql.NullString{String: string(data), Valid: true}
	}
	var processedAt sql.NullString
	if !rec.ProcessedAt.IsZero() {
		processedAt = sql.NullString{String: rec.ProcessedAt.UTC().Format(time.RFC3339Nano), Valid: true}
	}

	if _, err := tx.ExecContext(ctx, `
	INSERT INTO exams (position, exam, metadata, checksum, processed_at)
	VALUES (?, ?, ?, ?, ?)
	`, pos, rec.Exam, metadata, rec.Checksum, processedAt); err != nil {
		return fmt.Errorf("failed to insert exam %s: %w", rec.Exam, err)
	}

	for i, q := range rec.Questions {
		data, err := json.Marshal(q)
		if err != nil {
			return fmt.Errorf("failed to serialize question of %s: %w", rec.Exam, err)
		}
		result, err := tx.ExecContext(ctx, `
		INSERT INTO questions (exam_position, position, exam, page, text, question_json)
		VALUES (?, ?, ?, ?, ?, ?)
		`, pos, i, q.Exam, q.Page, q.Text, string(data))
		if err != nil {
			return fmt.Errorf("failed to insert question of %s: %w", rec.Exam, err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read question id: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO questions_fts (rowid, content) VALUES (?, ?)",
			id, extract.CleanMath(q.SearchContent()),
		); err != nil {
			return fmt.Errorf("failed to index question of %s: %w", rec.Exam, err)
		}
	}
	return nil
}

// Stats summarizes what the database holds.
type Stats struct {
	Exams     int
	Questions int
	Tagged    int
}

// Stats counts exams, questions and tagged questions.
func (cdb *CorpusDB) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	if err := cdb.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM exams").Scan(&s.Exams); err != nil {
		return Stats{}, fmt.Errorf("failed to count exams: %w", err)
	}
	if err := cdb.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM questions").Scan(&s.Questions); err != nil {
		return Stats{}, fmt.Errorf("failed to count questions: %w", err)
	}
	err := cdb.db.QueryRowContext(ctx, `
	SELECT COUNT(*) FROM questions
	WHERE json_extract(question_json, '$.tags') IS NOT NULL
		OR json_extract(question_json, '$.difficulty') IS NOT NULL
		OR json_extract(question_json, '$.skill_types') IS NOT NULL
	`).Scan(&s.Tagged)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to count tagged questions: %w", err)
	}
	return s, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,          // what Save writes
	time.RFC3339,              // Full RFC3339 format
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, it returns the zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
