package downloader

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"language-learner/internal/app/util/files"
	"language-learner/internal/config"
)

const defaultDriveDownloadURL = "https://drive.usercontent.google.com/download"

// HTTPFetcher downloads over plain HTTP. HTML responses are inspected for the
// media they point to.
type HTTPFetcher struct {
	client   *http.Client
	driveURL string
	logger   *zap.Logger
}

// NewHTTPFetcher returns an HTTP fetcher. A nil client uses a client without
// an overall timeout so long videos can stream.
func NewHTTPFetcher(client *http.Client, logger *zap.Logger) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			ResponseHeaderTimeout: 60 * time.Second,
		}}
	}
	return &HTTPFetcher{client: client, driveURL: defaultDriveDownloadURL, logger: logger}
}

// FetchURL streams lesson.URL into dest. When the URL serves an HTML page the
// og:video, og:audio or first <video>/<source> element is followed instead.
func (f *HTTPFetcher) FetchURL(ctx context.Context, _ config.Source, lesson config.Lesson, dest string) error {
	return f.download(ctx, lesson.URL, dest, f.mediaFromPage)
}

// FetchGoogleDrive downloads a Drive file directly, confirming the virus-scan
// interstitial shown for large files.
func (f *HTTPFetcher) FetchGoogleDrive(ctx context.Context, _ config.Source, lesson config.Lesson, dest string) error {
	u := fmt.Sprintf("%s?id=%s&export=download", f.driveURL, url.QueryEscape(lesson.ID))
	return f.download(ctx, u, dest, driveConfirmURL)
}

// resolver finds the next URL to fetch in an HTML page served instead of media.
type resolver func(base *url.URL, doc *goquery.Document) (string, error)

func (f *HTTPFetcher) download(ctx context.Context, rawURL, dest string, resolve resolver) error {
	for hop := 0; hop < 3; hop++ {
		resp, err := f.get(ctx, rawURL)
		if err != nil {
			return err
		}

		if !isHTML(resp.Header.Get("Content-Type")) {
			f.logger.Debug("streaming response", zap.String("url", rawURL), zap.Int64("size", resp.ContentLength))
			err := files.WriteAtomic(dest, 0o644, func(w io.Writer) error {
				_, err := io.Copy(w, readerWithContext(ctx, resp.Body))
				return err
			})
			resp.Body.Close()
			return err
		}

		doc, err := goquery.NewDocumentFromReader(resp.Body)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("parse html from %s: %w", rawURL, err)
		}
		next, err := resolve(resp.Request.URL, doc)
		if err != nil {
			return fmt.Errorf("%s: %w", rawURL, err)
		}
		rawURL = next
	}
	return fmt.Errorf("too many html redirections for %s", rawURL)
}

func (f *HTTPFetcher) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; language-learner)")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: unexpected status %s", rawURL, resp.Status)
	}
	return resp, nil
}

func isHTML(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "text/html"
}

// mediaFromPage picks the media URL a lesson page embeds.
func (f *HTTPFetcher) mediaFromPage(base *url.URL, doc *goquery.Document) (string, error) {
	candidates := []struct {
		selector string
		attr     string
	}{
		{`meta[property="og:video"]`, "content"},
		{`meta[property="og:video:url"]`, "content"},
		{`meta[property="og:audio"]`, "content"},
		{`video[src]`, "src"},
		{`video source[src]`, "src"},
		{`audio source[src]`, "src"},
	}
	for _, c := range candidates {
		if v, ok := doc.Find(c.selector).First().Attr(c.attr); ok && strings.TrimSpace(v) != "" {
			return resolveRef(base, v)
		}
	}
	return "", fmt.Errorf("page contains no downloadable media")
}

// driveConfirmURL rebuilds the request behind Drive's "download anyway" form.
func driveConfirmURL(base *url.URL, doc *goquery.Document) (string, error) {
	form := doc.Find("form#download-form").First()
	if form.Length() == 0 {
		title := strings.TrimSpace(doc.Find("title").Text())
		return "", fmt.Errorf("google drive returned a page without a download form (%q); the file may not be shared publicly", title)
	}

	action, _ := form.Attr("action")
	target, err := resolveRef(base, action)
	if err != nil {
		return "", err
	}
	u, err := url.Parse(target)
	if err != nil {
		return "", err
	}

	q := u.Query()
	form.Find(`input[type="hidden"]`).Each(func(_ int, s *goquery.Selection) {
		name, ok := s.Attr("name")
		if !ok {
			return
		}
		value, _ := s.Attr("value")
		q.Set(name, value)
	})
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func resolveRef(base *url.URL, ref string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", err
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	return u.String(), nil
}
