package pipeline

import (
	"fmt"
	"sort"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/multierr"

	"language-learner/internal/app/notes"
)

// Failure is a lesson stage that did not complete.
type Failure struct {
	Lesson string
	Stage  Stage
	Err    error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s %s: %v", f.Stage, f.Lesson, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// Report summarizes a run. It is safe for concurrent use while lessons run.
type Report struct {
	mu sync.Mutex

	RunID       string
	Stage       Stage
	Downloaded  []string
	Transcribed []string
	Skipped     []string
	Failures    []Failure
	Notes       *notes.Result
}

func (r *Report) add(list *[]string, lesson string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	*list = append(*list, lesson)
}

func (r *Report) downloaded(lesson string)  { r.add(&r.Downloaded, lesson) }
func (r *Report) transcribed(lesson string) { r.add(&r.Transcribed, lesson) }

func (r *Report) skipped(stage Stage, lesson string) {
	r.add(&r.Skipped, stage.String()+":"+lesson)
}

func (r *Report) fail(stage Stage, lesson string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Failures = append(r.Failures, Failure{Lesson: lesson, Stage: stage, Err: err})
}

// FailedLessons lists lessons with at least one failed stage.
func (r *Report) FailedLessons() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := lo.Uniq(lo.Map(r.Failures, func(f Failure, _ int) string { return f.Lesson }))
	sort.Strings(names)
	return names
}

// Err combines every failure, or returns nil.
func (r *Report) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var errs error
	for _, f := range r.Failures {
		errs = multierr.Append(errs, f)
	}
	return errs
}

// sortLists makes parallel runs report in a stable order.
func (r *Report) sortLists() {
	r.mu.Lock()
	defer r.mu.Unlock()
	sort.Strings(r.Downloaded)
	sort.Strings(r.Transcribed)
	sort.Strings(r.Skipped)
	sort.SliceStable(r.Failures, func(i, j int) bool { return r.Failures[i].Lesson < r.Failures[j].Lesson })
}
