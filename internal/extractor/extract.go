package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/samvad-hq/samvad-post-curator/internal/domain"
)

// Extract applies the default policy to html fetched from sourceURL.
func Extract(html, sourceURL string) domain.ExtractionRecord {
	return DefaultPolicy().Extract(html, sourceURL)
}

// Extract parses html best-effort. It never fails: unparseable input yields
// an empty title, body and image list. It does no I/O.
func (p Policy) Extract(html, sourceURL string) domain.ExtractionRecord {
	p = p.withDefaults()
	rec := domain.ExtractionRecord{SourceURL: sourceURL, Images: []string{}}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return rec
	}

	rec.Title = strings.TrimSpace(doc.Find("title").First().Text())
	rec.BodyText = p.bodyText(doc)
	rec.Images = p.images(doc)
	return rec
}

func (p Policy) bodyText(doc *goquery.Document) string {
	var b strings.Builder
	doc.Find(p.BlockSelector).Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if domain.CharCount(text) <= p.MinParagraphChars {
			return
		}
		b.WriteString(text)
		b.WriteString(p.BlockSeparator)
	})
	return domain.TruncateChars(b.String(), p.MaxBodyChars)
}

func (p Policy) images(doc *goquery.Document) []string {
	out := make([]string, 0, p.MaxImages)
	doc.Find("img").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		src, ok := sel.Attr("src")
		if ok && p.imageQualifies(src) {
			out = append(out, src)
		}
		return len(out) < p.MaxImages
	})
	return out
}

func (p Policy) imageQualifies(src string) bool {
	if !isAbsoluteHTTP(src) {
		return false
	}
	for _, s := range p.ExcludedImageSubstrings {
		if s != "" && strings.Contains(src, s) {
			return false
		}
	}
	return true
}

func isAbsoluteHTTP(u string) bool {
	lower := strings.ToLower(u)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
