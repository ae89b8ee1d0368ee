// Package notes renders the course study notes as Markdown and PDF.
package notes

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	apperrors "language-learner/internal/app/errors"
	"language-learner/internal/app/model"
	"language-learner/internal/app/transcript"
	"language-learner/internal/app/util/files"
	"language-learner/internal/config"
)

const (
	maxVocabulary   = 15
	maxGrammar      = 10
	vocabularyChars = 100
	grammarChars    = 150
)

var (
	vocabularyKeywords = []string{"word", "means", "called", "vocabulary", "vocabulario", "significa", "słowo", "oznacza", "mot", "wort"}
	grammarKeywords    = []string{"grammar", "rule", "form", "gramática", "gramatica", "grammaire", "grammatik", "gramatyka", "zasada"}
)

// Result describes what Generate wrote.
type Result struct {
	Markdown    string
	PDF         string
	Lessons     int
	Transcribed int
	// PDFError is set when the PDF could not be rendered. The Markdown is
	// still valid.
	PDFError error
}

// Generator builds the course notes from the stored transcripts.
type Generator struct {
	cfg    *config.Config
	pdf    *PDFConverter
	logger *zap.Logger
	now    func() time.Time
}

// NewGenerator returns a generator. pdf may be nil when PDF output is off.
func NewGenerator(cfg *config.Config, pdf *PDFConverter, logger *zap.Logger) *Generator {
	return &Generator{cfg: cfg, pdf: pdf, logger: logger, now: time.Now}
}

// Generate writes the Markdown notes for lessons and, when enabled, the PDF.
func (g *Generator) Generate(ctx context.Context, lessons []config.LessonRef) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, transcribed := g.Render(lessons)
	path := g.cfg.NotesPath()
	if err := files.EnsureDir(g.cfg.OutputDir()); err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindIO, "prepare output directory")
	}
	if err := files.WriteFileAtomic(path, []byte(content), 0o644); err != nil {
		return nil, apperrors.Wrapf(err, apperrors.KindRender, "write notes %s", path)
	}

	g.logger.Info("notes generated",
		zap.String("path", path),
		zap.Int("lessons", len(lessons)),
		zap.Int("transcribed", transcribed),
		zap.Int("characters", utf8.RuneCountInString(content)))

	res := &Result{Markdown: path, Lessons: len(lessons), Transcribed: transcribed}
	if !g.cfg.Output.GeneratePDF {
		return res, nil
	}

	if g.pdf == nil {
		res.PDFError = apperrors.ErrPDFUnavailable
	} else {
		res.PDF, res.PDFError = g.pdf.ConvertFile(ctx, path, files.ReplaceExt(path, ".pdf"))
	}
	if res.PDFError != nil {
		g.logger.Warn("pdf generation failed, markdown notes kept", zap.String("notes", path), zap.Error(res.PDFError))
	}
	return res, nil
}

// Render builds the Markdown document and reports how many lessons had a
// transcript.
func (g *Generator) Render(lessons []config.LessonRef) (string, int) {
	bundle := BundleFor(g.cfg.Language.Code)
	alphabet := ""
	if g.cfg.Notes.ShouldIncludeAlphabet() {
		alphabet = bundle.Alphabet()
	}
	includeResources := g.cfg.Notes.ShouldIncludeResources()

	var b strings.Builder
	g.writeHeader(&b, lessons, alphabet != "", includeResources)

	if alphabet != "" {
		b.WriteString(alphabet)
		b.WriteString("\n")
	}

	b.WriteString("\n<a name=\"lessons\"></a>\n## 🎓 Lessons\n")
	transcribed := 0
	for _, ref := range lessons {
		if g.writeLesson(&b, ref) {
			transcribed++
		}
	}

	if includeResources {
		b.WriteString("\n")
		b.WriteString(bundle.Resources())
		b.WriteString("\n")
	}

	b.WriteString(footer)
	return b.String(), transcribed
}

func (g *Generator) writeHeader(b *strings.Builder, lessons []config.LessonRef, alphabet, resources bool) {
	course := g.cfg.Course
	institution := course.Institution
	if institution == "" {
		institution = "Language Course"
	}

	fmt.Fprintf(b, "# %s\n", course.Name)
	fmt.Fprintf(b, "**Comprehensive %s Study Notes - %s**\n\n", course.Language, course.Level)
	fmt.Fprintf(b, "*%s*\n\n", institution)
	fmt.Fprintf(b, "*Generated: %s*\n\n---\n\n", g.now().Format("2006-01-02 15:04"))

	b.WriteString("## 📖 Table of Contents\n\n")
	n := 1
	entry := func(title, anchor string) {
		fmt.Fprintf(b, "%d. [%s](#%s)\n", n, title, anchor)
		n++
	}
	entry("Introduction", "introduction")
	if alphabet {
		entry("Alphabet", "alphabet")
	}
	entry("Lessons", "lessons")
	for _, ref := range lessons {
		fmt.Fprintf(b, "   - [%s](#lesson-%d)\n", lessonHeading(ref), ref.Number)
	}
	if resources {
		entry("Resources", "resources")
	}
	entry("Progress Checklist", "checklist")

	b.WriteString(introduction)
}

// writeLesson appends one lesson section and reports whether its transcript
// was available.
func (g *Generator) writeLesson(b *strings.Builder, ref config.LessonRef) bool {
	lesson := ref.Lesson
	fmt.Fprintf(b, "\n<a name=\"lesson-%d\"></a>\n", ref.Number)
	if lesson.Date != "" {
		fmt.Fprintf(b, "## 📅 Lesson %d - %s\n", ref.Number, lesson.Date)
	} else {
		fmt.Fprintf(b, "## 📅 Lesson %d\n", ref.Number)
	}
	fmt.Fprintf(b, "### %s\n\n", lessonHeading(ref))

	_, jsonPath := transcript.Paths(g.cfg.TranscriptsDir(), lesson.Filename)
	t, err := transcript.ReadJSON(jsonPath)
	if err != nil {
		if !apperrors.Is(err, apperrors.ErrFileNotFound) {
			g.logger.Warn("transcript unreadable", zap.String("lesson", lesson.Filename), zap.Error(err))
		}
		b.WriteString("*Transcript not available yet.*\n")
	} else {
		g.writeAnalysis(b, ref, Analyze(t))
	}

	if ref.Kind == config.SourceYouTube && lesson.ID != "" {
		fmt.Fprintf(b, "\n📹 **Video:** [%s](%s)\n\n---\n", lesson.Filename, timestampURL(lesson.ID, -1))
	} else {
		fmt.Fprintf(b, "\n📹 **Video:** %s\n\n---\n", lesson.Filename)
	}
	return err == nil
}

func (g *Generator) writeAnalysis(b *strings.Builder, ref config.LessonRef, a Analysis) {
	if len(a.Vocabulary) == 0 && len(a.Grammar) == 0 {
		b.WriteString("*No vocabulary or grammar highlights detected.*\n")
		return
	}
	if len(a.Vocabulary) > 0 {
		b.WriteString("#### 📚 Vocabulary\n\n")
		for _, item := range a.Vocabulary {
			fmt.Fprintf(b, "- %s %s\n", timestampLabel(ref, item.Start), truncate(item.Text, vocabularyChars))
		}
		b.WriteString("\n")
	}
	if len(a.Grammar) > 0 {
		b.WriteString("#### 📖 Grammar\n\n")
		for _, item := range a.Grammar {
			fmt.Fprintf(b, "%s\n> %s\n\n", timestampLabel(ref, item.Start), truncate(item.Text, grammarChars))
		}
	}
}

// Analysis holds the learning points picked out of a transcript.
type Analysis struct {
	Vocabulary []model.Segment
	Grammar    []model.Segment
}

// Analyze classifies segments by keyword. A segment counts as vocabulary
// first and grammar only otherwise.
func Analyze(t *model.Transcript) Analysis {
	var a Analysis
	for _, seg := range t.Segments {
		text := strings.ToLower(seg.Text)
		switch {
		case containsAny(text, vocabularyKeywords):
			if len(a.Vocabulary) < maxVocabulary {
				a.Vocabulary = append(a.Vocabulary, seg)
			}
		case containsAny(text, grammarKeywords):
			if len(a.Grammar) < maxGrammar {
				a.Grammar = append(a.Grammar, seg)
			}
		}
	}
	return a
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// truncate cuts s to n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:n])) + "..."
}

func timestampLabel(ref config.LessonRef, seconds float64) string {
	ts := transcript.FormatTimestamp(seconds)
	if ref.Kind == config.SourceYouTube && ref.Lesson.ID != "" {
		return fmt.Sprintf("[**%s**](%s)", ts, timestampURL(ref.Lesson.ID, seconds))
	}
	return fmt.Sprintf("**[%s]**", ts)
}

// timestampURL links into a YouTube video. A negative offset links to the
// start.
func timestampURL(id string, seconds float64) string {
	if seconds < 0 {
		return "https://www.youtube.com/watch?v=" + id
	}
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s&t=%ds", id, int64(seconds))
}

func lessonHeading(ref config.LessonRef) string {
	if ref.Lesson.Title != "" {
		return ref.Lesson.Title
	}
	return fmt.Sprintf("Lesson %d", ref.Number)
}

const introduction = `
---

<a name="introduction"></a>
## 🎯 Introduction

These notes include:
- ✅ Lesson highlights with timestamps
- ✅ Vocabulary and grammar moments
- ✅ External resources for practice

**💡 How to use:**
- Timestamps **[HH:MM:SS]** point to moments in the lesson video
- Review lessons in order
- Track progress with the checklist at the end

---
`

const footer = `
---

<a name="checklist"></a>
## ✅ Progress Checklist

### Week 1-2: Basics
- [ ] Learn the alphabet/script
- [ ] Master basic greetings
- [ ] Learn numbers 1-10
- [ ] Practice pronunciation daily

### Month 1: Foundation
- [ ] 100+ vocabulary words
- [ ] Basic grammar rules
- [ ] Simple conversations
- [ ] Daily 15-minute practice

### Month 2-3: Development
- [ ] 300+ vocabulary words
- [ ] Understand verb conjugations
- [ ] Watch content with subtitles
- [ ] Join a language exchange

---

*Generated by language-learner*
`
