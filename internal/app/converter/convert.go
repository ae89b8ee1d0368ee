package converter

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"language-learner/internal/app/api"
	"language-learner/internal/app/audio"
	apperrors "language-learner/internal/app/errors"
	"language-learner/internal/app/model"
	"language-learner/internal/app/repository"
	"language-learner/internal/app/transcript"
	"language-learner/internal/app/util/files"
	"language-learner/internal/app/utils"
	"language-learner/internal/config"
)

// LessonPaths are the on-disk artifacts of one lesson.
type LessonPaths struct {
	Video      string
	Audio      string
	Transcript string
	JSON       string
}

// PathsFor lays out a lesson's artifacts under the configured output tree.
func PathsFor(cfg *config.Config, lesson config.Lesson) LessonPaths {
	txt, jsonPath := transcript.Paths(cfg.TranscriptsDir(), lesson.Filename)
	return LessonPaths{
		Video:      filepath.Join(cfg.OutputDir(), lesson.Filename),
		Audio:      filepath.Join(cfg.AudioDir(), files.ReplaceExt(lesson.Filename, ".mp3")),
		Transcript: txt,
		JSON:       jsonPath,
	}
}

// Outputs are the files whose presence proves a lesson was transcribed.
func (p LessonPaths) Outputs() []string {
	return []string{p.Transcript, p.JSON}
}

// Converter runs the transcribe stage for a single lesson.
type Converter struct {
	cfg         *config.Config
	extractor   audio.Extractor
	transcriber api.Transcriber
	catalog     repository.CatalogDAO
	runID       string
	logger      *zap.Logger
}

// NewConverter wires a converter. catalog may be nil.
func NewConverter(cfg *config.Config, extractor audio.Extractor, transcriber api.Transcriber,
	catalog repository.CatalogDAO, runID string, logger *zap.Logger) *Converter {
	return &Converter{
		cfg:         cfg,
		extractor:   extractor,
		transcriber: transcriber,
		catalog:     catalog,
		runID:       runID,
		logger:      logger,
	}
}

// Close releases the catalog.
func (c *Converter) Close() error {
	if c.catalog == nil {
		return nil
	}
	return c.catalog.Close()
}

// Convert transcribes ref and writes its txt and json transcripts. When both
// outputs already exist the stored transcript is returned instead.
func (c *Converter) Convert(ctx context.Context, ref config.LessonRef) (*model.Transcript, error) {
	p := PathsFor(c.cfg, ref.Lesson)
	log := c.logger.With(zap.String("lesson", ref.Lesson.Filename))

	if files.AllExist(p.Outputs()...) {
		t, err := transcript.ReadJSON(p.JSON)
		if err == nil {
			log.Info("transcript already exists, reusing", zap.String("path", p.JSON))
			return t, nil
		}
		log.Warn("stored transcript unreadable, transcribing again", zap.Error(err))
	}

	input := p.Video
	if c.cfg.Processing.ShouldExtractAudio() {
		if err := c.extractor.Extract(ctx, p.Video, p.Audio); err != nil {
			c.record(ctx, ref, p.Audio, nil, err)
			return nil, err
		}
		input = p.Audio
	} else if !files.Exists(p.Video) {
		err := apperrors.Wrapf(apperrors.ErrAudioExtraction, apperrors.KindTranscription, "video %s does not exist", p.Video)
		c.record(ctx, ref, input, nil, err)
		return nil, err
	}

	log.Info("transcribing", zap.String("input", input), zap.String("language", c.cfg.Transcription.Language))
	start := time.Now()

	t, err := c.transcriber.Transcribe(ctx, input, c.cfg.Transcription.Language)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindUnknown {
			err = apperrors.Wrapf(err, apperrors.KindTranscription, "transcribe %s", filepath.Base(input))
		}
		c.record(ctx, ref, input, nil, err)
		return nil, err
	}
	t.Normalize()
	if t.Language == "" {
		t.Language = c.cfg.Transcription.Language
	}

	if err := files.EnsureDir(filepath.Dir(p.Transcript)); err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindIO, "prepare transcripts directory")
	}
	if err := transcript.WriteText(p.Transcript, lessonTitle(ref), t); err != nil {
		return nil, err
	}
	if err := transcript.WriteJSON(p.JSON, t); err != nil {
		if rmErr := os.Remove(p.Transcript); rmErr != nil && !os.IsNotExist(rmErr) {
			log.Warn("failed to remove partial transcript", zap.String("path", p.Transcript), zap.Error(rmErr))
		}
		return nil, err
	}

	log.Info("transcription completed",
		zap.Int("segments", len(t.Segments)),
		zap.Duration("took", time.Since(start)),
		zap.String("transcript", p.Transcript))

	c.record(ctx, ref, input, t, nil)
	c.cleanupVideo(p, input, log)
	return t, nil
}

// Paths exposes the artifact layout used by Convert.
func (c *Converter) Paths(lesson config.Lesson) LessonPaths {
	return PathsFor(c.cfg, lesson)
}

func (c *Converter) cleanupVideo(p LessonPaths, input string, log *zap.Logger) {
	if c.cfg.Processing.ShouldKeepVideo() || input == p.Video || !files.Exists(p.Video) {
		return
	}
	if err := os.Remove(p.Video); err != nil {
		log.Warn("failed to remove video", zap.String("video", p.Video), zap.Error(err))
		return
	}
	log.Info("removed video", zap.String("video", p.Video))
}

// record stores the attempt in the catalog. Catalog failures never fail the
// lesson.
func (c *Converter) record(ctx context.Context, ref config.LessonRef, input string, t *model.Transcript, cause error) {
	if c.catalog == nil {
		return
	}

	rec := model.CatalogRecord{
		RunID:      c.runID,
		Course:     c.cfg.Course.Name,
		Lesson:     ref.Lesson.Filename,
		SourceKind: string(ref.Kind),
		AudioFile:  filepath.Base(input),
		Language:   c.cfg.Transcription.Language,
		Provider:   c.providerName(),
		CreatedAt:  time.Now(),
	}
	if t != nil {
		rec.AudioDuration = t.Duration
		rec.Language = t.Language
		rec.SegmentCount = len(t.Segments)
		rec.Transcript = t.Text
	}
	if cause != nil {
		rec.HasError = true
		rec.ErrorMessage = cause.Error()
	}
	if files.Exists(input) {
		if hash, err := utils.CalculateFileHash(input); err == nil {
			rec.FileHash = hash
		}
		if rec.AudioDuration == 0 {
			if d, err := audio.GetAudioDuration(ctx, input); err == nil {
				rec.AudioDuration = d
			}
		}
	}

	if err := c.catalog.Record(ctx, rec); err != nil {
		c.logger.Warn("failed to record catalog entry", zap.String("lesson", rec.Lesson), zap.Error(err))
	}
}

func (c *Converter) providerName() string {
	if n, ok := c.transcriber.(api.Named); ok {
		return n.Name()
	}
	return c.cfg.Transcription.Provider
}

func lessonTitle(ref config.LessonRef) string {
	if ref.Lesson.Title != "" {
		return ref.Lesson.Title
	}
	return strings.TrimSuffix(ref.Lesson.Filename, filepath.Ext(ref.Lesson.Filename))
}
