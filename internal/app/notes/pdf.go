package notes

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	apperrors "language-learner/internal/app/errors"
	"language-learner/internal/app/util/files"
)

// PDFRenderer prints a standalone HTML document to a PDF stream.
type PDFRenderer interface {
	RenderPDF(ctx context.Context, document string, w io.Writer) error
}

// RodRenderer prints through a headless Chrome driven by rod.
type RodRenderer struct {
	// BrowserBin overrides Chrome discovery.
	BrowserBin string
}

var _ PDFRenderer = (*RodRenderer)(nil)

// RenderPDF launches a browser for the duration of one document.
func (r *RodRenderer) RenderPDF(ctx context.Context, document string, w io.Writer) error {
	bin := r.BrowserBin
	if bin == "" {
		found, ok := launcher.LookPath()
		if !ok {
			return apperrors.Wrap(apperrors.ErrPDFUnavailable, apperrors.KindRender, "chrome or chromium not found")
		}
		bin = found
	}

	l := launcher.New().Bin(bin).Headless(true).Leakless(true).Set("disable-dev-shm-usage")
	u, err := l.Launch()
	if err != nil {
		return apperrors.Wrap(err, apperrors.KindRender, "launching browser")
	}
	defer l.Kill()

	browser := rod.New().ControlURL(u).Context(ctx)
	if err := browser.Connect(); err != nil {
		return apperrors.Wrap(err, apperrors.KindRender, "connecting to browser")
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return apperrors.Wrap(err, apperrors.KindRender, "open page")
	}
	defer page.Close()

	if err := page.SetDocumentContent(document); err != nil {
		return apperrors.Wrap(err, apperrors.KindRender, "load document")
	}
	if err := page.WaitLoad(); err != nil {
		return apperrors.Wrap(err, apperrors.KindRender, "wait for document")
	}

	stream, err := page.PDF(&proto.PagePrintToPDF{
		PrintBackground:   true,
		PreferCSSPageSize: true,
	})
	if err != nil {
		return apperrors.Wrap(err, apperrors.KindRender, "print pdf")
	}
	defer stream.Close()

	if _, err := io.Copy(w, stream); err != nil {
		return apperrors.Wrap(err, apperrors.KindRender, "read pdf stream")
	}
	return nil
}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	// Notes carry raw <a name> anchors.
	goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
)

// HTMLOptions controls the document wrapper around rendered Markdown.
type HTMLOptions struct {
	Title string
	Mode  string
	Lang  string
}

// MarkdownToHTML renders md as a complete HTML document styled for mode.
func MarkdownToHTML(md []byte, opts HTMLOptions) (string, error) {
	var body bytes.Buffer
	if err := markdown.Convert(md, &body); err != nil {
		return "", apperrors.Wrap(err, apperrors.KindRender, "render markdown")
	}

	title := opts.Title
	if title == "" {
		title = "Language Learning Notes"
	}
	lang := opts.Lang
	if lang == "" {
		lang = "en"
	}
	dir := "ltr"
	if BundleFor(lang).RightToLeft() {
		dir = "rtl"
	}

	var doc strings.Builder
	fmt.Fprintf(&doc, "<!DOCTYPE html>\n<html lang=\"%s\" dir=\"%s\">\n<head>\n", html.EscapeString(lang), dir)
	doc.WriteString("<meta charset=\"UTF-8\">\n")
	fmt.Fprintf(&doc, "<title>%s</title>\n", html.EscapeString(title))
	fmt.Fprintf(&doc, "<style>\n%s\n%s\n</style>\n", pageCSS(opts.Mode), baseCSS)
	doc.WriteString("</head>\n<body>\n")
	doc.Write(body.Bytes())
	doc.WriteString("</body>\n</html>\n")
	return doc.String(), nil
}

// PDFConverter turns Markdown files into PDFs.
type PDFConverter struct {
	renderer PDFRenderer
	mode     string
	lang     string
	logger   *zap.Logger
}

// NewPDFConverter returns a converter printing in mode for a course in lang.
func NewPDFConverter(renderer PDFRenderer, mode, lang string, logger *zap.Logger) *PDFConverter {
	return &PDFConverter{renderer: renderer, mode: mode, lang: lang, logger: logger}
}

// ConvertFile renders mdPath to pdfPath, or next to mdPath when pdfPath is
// empty. It returns the written path.
func (c *PDFConverter) ConvertFile(ctx context.Context, mdPath, pdfPath string) (string, error) {
	if pdfPath == "" {
		pdfPath = files.ReplaceExt(mdPath, ".pdf")
	}

	md, err := os.ReadFile(mdPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", apperrors.NotFound("markdown", mdPath)
		}
		return "", apperrors.Wrapf(err, apperrors.KindIO, "read %s", mdPath)
	}

	title := strings.TrimSuffix(filepath.Base(mdPath), filepath.Ext(mdPath))
	doc, err := MarkdownToHTML(md, HTMLOptions{Title: title, Mode: c.mode, Lang: c.lang})
	if err != nil {
		return "", err
	}

	c.logger.Info("converting to pdf", zap.String("markdown", mdPath), zap.String("mode", c.mode))

	err = files.WriteAtomic(pdfPath, 0o644, func(w io.Writer) error {
		return c.renderer.RenderPDF(ctx, doc, w)
	})
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindUnknown {
			err = apperrors.Wrapf(err, apperrors.KindRender, "render %s", pdfPath)
		}
		return "", err
	}

	if info, statErr := os.Stat(pdfPath); statErr == nil {
		c.logger.Info("pdf generated", zap.String("pdf", pdfPath), zap.Int64("bytes", info.Size()))
	}
	return pdfPath, nil
}

// ConvertDir converts every .md file in dir. Failures are collected and the
// remaining files are still attempted.
func (c *PDFConverter) ConvertDir(ctx context.Context, dir string) ([]string, error) {
	entries, err := files.ListFiles(dir, ".md")
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.KindIO, "list %s", dir)
	}
	if len(entries) == 0 {
		return nil, apperrors.Wrapf(apperrors.ErrFileNotFound, apperrors.KindIO, "no .md files in %s", dir)
	}

	var written []string
	var errs error
	for _, entry := range entries {
		md := entry.FullPath
		if ctx.Err() != nil {
			errs = multierr.Append(errs, ctx.Err())
			break
		}
		out, err := c.ConvertFile(ctx, md, "")
		if err != nil {
			c.logger.Error("pdf conversion failed", zap.String("markdown", md), zap.Error(err))
			errs = multierr.Append(errs, err)
			continue
		}
		written = append(written, out)
	}
	return written, errs
}
