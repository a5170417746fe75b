package gui

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"fyne.io/fyne/v2/storage"
	"github.com/PuerkitoBio/goquery"
	"github.com/gabriel-vasile/mimetype"
)

var ErrUnsupportedScheme = errors.New("unsupported resource scheme")

// Document is a loaded window resource reduced to what the shell renders.
type Document struct {
	URL      string
	MIME     string
	Title    string
	Blocks   []string
	Links    []string
	Size     int
	LoadTime time.Duration
}

// LoadDocument reads a file:// resource and parses it.
func LoadDocument(resourceURL string) (*Document, error) {
	start := time.Now()

	uri, err := storage.ParseURI(resourceURL)
	if err != nil {
		return nil, fmt.Errorf("parse resource url: %w", err)
	}
	if uri.Scheme() != "file" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, uri.Scheme())
	}

	reader, err := storage.Reader(uri)
	if err != nil {
		return nil, fmt.Errorf("open resource %s: %w", uri.Path(), err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read resource %s: %w", uri.Path(), err)
	}

	doc, err := ParseDocument(resourceURL, data)
	if err != nil {
		return nil, err
	}
	doc.LoadTime = time.Since(start)
	return doc, nil
}

// ParseDocument extracts title, text blocks and links from HTML. Anything
// that is not HTML is kept as plain text, one block per non-empty line.
func ParseDocument(resourceURL string, data []byte) (*Document, error) {
	mime := mimetype.Detect(data)
	doc := &Document{
		URL:  resourceURL,
		MIME: mime.String(),
		Size: len(data),
	}

	if !mime.Is("text/html") {
		for _, line := range strings.Split(string(data), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				doc.Blocks = append(doc.Blocks, line)
			}
		}
		return doc, nil
	}

	html, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	html.Find("script, style, noscript").Remove()

	doc.Title = normalizeSpace(html.Find("title").First().Text())
	html.Find("h1, h2, h3, h4, h5, h6, p, li, pre").Each(func(_ int, s *goquery.Selection) {
		if text := normalizeSpace(s.Text()); text != "" {
			doc.Blocks = append(doc.Blocks, text)
		}
	})
	html.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok && strings.TrimSpace(href) != "" {
			doc.Links = append(doc.Links, strings.TrimSpace(href))
		}
	})

	if len(doc.Blocks) == 0 {
		if text := normalizeSpace(html.Find("body").Text()); text != "" {
			doc.Blocks = append(doc.Blocks, text)
		}
	}
	return doc, nil
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
