package converter

import (
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// ProgressConfig controls terminal progress output.
type ProgressConfig struct {
	Enabled bool
	Writer  io.Writer
}

// ProgressManager owns the terminal bars of one run. A nil or disabled
// manager hands out bars that do nothing.
type ProgressManager struct {
	mu        sync.Mutex
	container *mpb.Progress
}

// ProgressBar counts finished lessons and shows the most recent one.
type ProgressBar struct {
	bar  *mpb.Bar
	last atomic.Value
}

func NewProgressManager(cfg ProgressConfig) *ProgressManager {
	if !cfg.Enabled {
		return &ProgressManager{}
	}
	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}
	return &ProgressManager{
		container: mpb.New(mpb.WithOutput(w), mpb.WithRefreshRate(150*time.Millisecond)),
	}
}

// CreateBar adds a bar for total lessons labelled with stage.
func (pm *ProgressManager) CreateBar(total int, stage string) *ProgressBar {
	pb := &ProgressBar{}
	pb.last.Store("")
	if pm == nil || pm.container == nil {
		return pb
	}

	pm.mu.Lock()
	defer pm.mu.Unlock()
	pb.bar = pm.container.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name(stage, decor.WCSyncSpaceR),
			decor.CountersNoUnit("%d/%d lessons", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.OnComplete(decor.Elapsed(decor.ET_STYLE_MMSS, decor.WCSyncSpace), " done"),
			decor.Any(func(decor.Statistics) string { return pb.last.Load().(string) }, decor.WCSyncSpace),
		),
	)
	return pb
}

// Advance counts lesson as finished, whatever its outcome.
func (pb *ProgressBar) Advance(lesson string) {
	if pb == nil || pb.bar == nil {
		return
	}
	pb.last.Store(lesson)
	pb.bar.Increment()
}

// Complete ends the bar early when the run stopped before every lesson.
func (pb *ProgressBar) Complete() {
	if pb == nil || pb.bar == nil {
		return
	}
	pb.bar.SetTotal(-1, true)
}

// Wait blocks until every bar has finished rendering.
func (pm *ProgressManager) Wait() {
	if pm != nil && pm.container != nil {
		pm.container.Wait()
	}
}

// Shutdown stops rendering immediately. It is safe after Wait.
func (pm *ProgressManager) Shutdown() {
	if pm != nil && pm.container != nil {
		pm.container.Shutdown()
	}
}

// IsTTY reports whether w is a character device.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	stat, err := f.Stat()
	return err == nil && stat.Mode()&os.ModeCharDevice != 0
}

// ShouldShowProgress enables bars when forced or when stderr is a terminal.
func ShouldShowProgress(forced bool) bool {
	return forced || IsTTY(os.Stderr)
}
