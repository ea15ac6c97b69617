// Package storage keeps a history of dashboard launches.
// It uses BoltDB as the underlying storage engine. Each launch is one record
// keyed by a monotonically increasing sequence number, so cursor order is
// launch order.
package storage

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

const (
	runsBucket = "runs"
	dbFile     = "launcher-runs.db"
)

// ErrRunNotFound is returned when a run id has no record.
var ErrRunNotFound = errors.New("run not found")

// Run is a single launch of the dashboard.
type Run struct {
	ID          uint64    `json:"id"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
	Argv        []string  `json:"argv"`
	Port        string    `json:"port"`
	ExitCode    int       `json:"exit_code"`
	Interrupted bool      `json:"interrupted"`
	Error       string    `json:"error,omitempty"`
}

// Finished reports whether the outcome of the run was recorded.
func (r Run) Finished() bool {
	return !r.FinishedAt.IsZero()
}

// Store provides persistent storage for launch records using BoltDB.
type Store struct {
	db  *bbolt.DB
	now func() time.Time
}

// New opens (creating if needed) the history database under dataPath.
func New(dataPath string) (*Store, error) {
	if err := os.MkdirAll(dataPath, 0o750); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	dbPath := filepath.Join(dataPath, dbFile)

	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(runsBucket)); err != nil {
			return fmt.Errorf("create runs bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database connection gracefully.
func (s *Store) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

// Begin records the start of a launch and returns its id.
func (s *Store) Begin(argv []string, port string) (uint64, error) {
	var id uint64
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(runsBucket))

		seq, err := b.NextSequence()
		if err != nil {
			return fmt.Errorf("next run id: %w", err)
		}
		id = seq

		return putRun(b, Run{
			ID:        id,
			StartedAt: s.now().UTC(),
			Argv:      argv,
			Port:      port,
		})
	})
	return id, err
}

// Finish records the outcome of a launch started with Begin.
func (s *Store) Finish(id uint64, exitCode int, interrupted bool, runErr error) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(runsBucket))

		run, err := getRun(b, id)
		if err != nil {
			return err
		}

		run.FinishedAt = s.now().UTC()
		run.ExitCode = exitCode
		run.Interrupted = interrupted
		if runErr != nil {
			run.Error = runErr.Error()
		}
		return putRun(b, run)
	})
}

// Get returns the run with the given id.
func (s *Store) Get(id uint64) (Run, error) {
	var run Run
	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		run, err = getRun(tx.Bucket([]byte(runsBucket)), id)
		return err
	})
	return run, err
}

// Recent returns up to n runs, newest first.
func (s *Store) Recent(n int) ([]Run, error) {
	var runs []Run
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(runsBucket)).Cursor()
		for k, v := c.Last(); k != nil && len(runs) < n; k, v = c.Prev() {
			var run Run
			if err := json.Unmarshal(v, &run); err != nil {
				continue // Skip malformed records
			}
			runs = append(runs, run)
		}
		return nil
	})
	return runs, err
}

func putRun(b *bbolt.Bucket, run Run) error {
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}
	return b.Put(runKey(run.ID), data)
}

func getRun(b *bbolt.Bucket, id uint64) (Run, error) {
	data := b.Get(runKey(id))
	if data == nil {
		return Run{}, fmt.Errorf("run %d: %w", id, ErrRunNotFound)
	}

	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return Run{}, fmt.Errorf("unmarshal run %d: %w", id, err)
	}
	return run, nil
}

func runKey(id uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, id)
	return key
}
