// Copyright 2025 Kadir Pekel
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/sree-akkineni/researchloop/looprecord"
)

// FileStore is the file-backed persistence layer for the registry's
// document. One FileStore corresponds to one loops.json path; multiple
// FileStore values (in this process or others) pointed at the same path
// cooperate via the sidecar lock file.
type FileStore struct {
	path     string
	lock     *fileLock
	timeout  time.Duration
}

// New returns a FileStore backed by the JSON document at path. The
// parent directory is created lazily on first write.
func New(path string) *FileStore {
	return &FileStore{
		path:    path,
		lock:    newFileLock(path + ".lock"),
		timeout: DefaultLockTimeout,
	}
}

// WithLockTimeout overrides the default lock-acquisition timeout.
func (s *FileStore) WithLockTimeout(d time.Duration) *FileStore {
	s.timeout = d
	return s
}

// Path returns the resolved document path.
func (s *FileStore) Path() string { return s.path }

// Read loads and normalizes the document without acquiring the lock.
// Suitable for read-only operations (status, list) that can tolerate a
// slightly stale, but always valid, snapshot.
func (s *FileStore) Read(_ context.Context) (*looprecord.Document, error) {
	return s.load()
}

// WithLock acquires the exclusive lock, loads and normalizes the
// document, invokes fn with it, and — only if fn returns nil — persists
// the (re-normalized) document atomically before releasing the lock. If
// fn returns an error, nothing is written and the error propagates
// unchanged.
func (s *FileStore) WithLock(ctx context.Context, fn func(*looprecord.Document) error) error {
	if err := s.lock.acquire(ctx, s.timeout); err != nil {
		return err
	}
	defer s.lock.release()

	doc, err := s.load()
	if err != nil {
		return err
	}

	if err := fn(doc); err != nil {
		return err
	}

	doc.Normalize()
	return s.writeAtomic(doc)
}

// load reads the document file. A missing file, a parse failure, or a
// schema version mismatch all normalize to an empty, current-version
// document rather than an error — corrupt stores are treated as empty on
// read, per spec.
func (s *FileStore) load() (*looprecord.Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return looprecord.NewDocument(), nil
		}
		return looprecord.NewDocument(), nil
	}

	var doc looprecord.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return looprecord.NewDocument(), nil
	}
	if doc.Version != looprecord.SchemaVersion {
		return looprecord.NewDocument(), nil
	}
	if doc.Loops == nil {
		doc.Loops = make(map[string]*looprecord.Loop)
	}

	doc.Normalize()
	return &doc, nil
}

// writeAtomic serializes doc as pretty-printed, trailing-newline UTF-8
// JSON and commits it to s.path.
//
// On non-Windows, the write goes to a sibling temp file which is synced
// and renamed into place, then chmod'd to owner-only (0600) — this
// eliminates torn reads for any concurrent lock-free Read. On Windows,
// rename-over-an-existing-file semantics are unreliable enough across
// supported versions that the document is written directly instead.
func (s *FileStore) writeAtomic(doc *looprecord.Document) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal registry document: %w", err)
	}
	data = append(data, '\n')

	if runtime.GOOS == "windows" {
		return os.WriteFile(s.path, data, 0o600)
	}

	base := filepath.Base(s.path)
	tmp, err := os.CreateTemp(dir, fmt.Sprintf("%s.%d.*.tmp", base, os.Getpid()))
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once the rename below succeeds

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("rename temp file into place: %w", err)
	}

	if err := os.Chmod(s.path, 0o600); err != nil {
		return fmt.Errorf("chmod registry document: %w", err)
	}

	return nil
}
