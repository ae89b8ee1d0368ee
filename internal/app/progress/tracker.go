// Package progress keeps the resumable log of completed pipeline tasks.
package progress

import (
	"encoding/json"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"

	apperrors "language-learner/internal/app/errors"
	"language-learner/internal/app/util/files"
)

// Task id builders. The prefixes are part of the on-disk format.
func DownloadTask(filename string) string   { return "download:" + filename }
func TranscribeTask(filename string) string { return "transcribe:" + filename }
func NotesTask(name string) string          { return "notes:" + name }

// legacyPrefixes maps task id prefixes written by earlier releases.
var legacyPrefixes = map[string]string{
	"download_":   "download:",
	"transcribe_": "transcribe:",
}

type record struct {
	Completed   []string  `json:"completed"`
	Started     timestamp `json:"started"`
	LastUpdated timestamp `json:"last_updated"`
}

// timestamp accepts RFC 3339 and zone-less ISO-8601 times. Anything else
// decodes as the zero time.
type timestamp struct {
	time.Time
}

var zonelessLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func (ts *timestamp) UnmarshalJSON(data []byte) error {
	ts.Time = time.Time{}
	var s string
	if err := json.Unmarshal(data, &s); err != nil || s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		ts.Time = t
		return nil
	}
	for _, layout := range zonelessLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			ts.Time = t
			return nil
		}
	}
	return nil
}

func (ts timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(ts.Format(time.RFC3339Nano))
}

func normalizeID(id string) string {
	for old, prefix := range legacyPrefixes {
		if rest, ok := strings.CutPrefix(id, old); ok {
			return prefix + rest
		}
	}
	return id
}

// Tracker records which tasks have completed. It is safe for concurrent use;
// every mutation rewrites the whole file.
type Tracker struct {
	mu   sync.Mutex
	path string
	rec  record
	done map[string]struct{}
	now  func() time.Time
}

// Open loads the progress file at path. A missing or unreadable file starts an
// empty log. A file that is not valid JSON, or whose completed field is not a
// list of strings, is a configuration error. Timestamps are read leniently.
func Open(path string) (*Tracker, error) {
	t := &Tracker{
		path: path,
		done: make(map[string]struct{}),
		now:  time.Now,
	}
	t.rec.Started = timestamp{t.now()}

	data, err := os.ReadFile(path)
	if err != nil {
		return t, nil
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrMalformedProgress, apperrors.KindConfig, "%s: %v", path, err)
	}
	if rec.Started.IsZero() {
		rec.Started = t.rec.Started
	}
	rec.Completed = lo.Uniq(lo.Map(rec.Completed, func(id string, _ int) string { return normalizeID(id) }))
	t.rec = rec
	for _, id := range rec.Completed {
		t.done[id] = struct{}{}
	}
	return t, nil
}

// Path is the file backing the tracker.
func (t *Tracker) Path() string {
	return t.path
}

// IsDone reports whether id has been recorded.
func (t *Tracker) IsDone(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.done[id]
	return ok
}

// MarkDone records id and persists the log. Marking an id twice is a no-op.
func (t *Tracker) MarkDone(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.done[id]; ok {
		return nil
	}
	t.done[id] = struct{}{}
	t.rec.Completed = append(t.rec.Completed, id)
	if err := t.save(); err != nil {
		delete(t.done, id)
		t.rec.Completed = t.rec.Completed[:len(t.rec.Completed)-1]
		return err
	}
	return nil
}

// Forget removes id so the task runs again.
func (t *Tracker) Forget(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.done[id]; !ok {
		return nil
	}
	delete(t.done, id)
	t.rec.Completed = lo.Without(t.rec.Completed, id)
	return t.save()
}

// Completed returns the recorded ids in completion order.
func (t *Tracker) Completed() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.rec.Completed...)
}

// Started is when the log was first created.
func (t *Tracker) Started() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rec.Started.Time
}

// LastUpdated is the time of the last persisted mutation.
func (t *Tracker) LastUpdated() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rec.LastUpdated.Time
}

// Reset clears every recorded task and removes the file.
func (t *Tracker) Reset() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.done = make(map[string]struct{})
	t.rec = record{Started: timestamp{t.now()}}
	if err := os.Remove(t.path); err != nil && !os.IsNotExist(err) {
		return apperrors.Wrapf(err, apperrors.KindIO, "remove progress file %s", t.path)
	}
	return nil
}

func (t *Tracker) save() error {
	t.rec.LastUpdated = timestamp{t.now()}
	if t.rec.Completed == nil {
		t.rec.Completed = []string{}
	}
	data, err := json.MarshalIndent(t.rec, "", "  ")
	if err != nil {
		return apperrors.Wrap(err, apperrors.KindIO, "encode progress")
	}
	if err := files.WriteFileAtomic(t.path, data, 0o644); err != nil {
		return apperrors.Wrap(err, apperrors.KindIO, "write progress")
	}
	return nil
}
