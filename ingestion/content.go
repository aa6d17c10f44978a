package ingestion

import (
	"strings"
	"time"

	"github.com/SigireddyBalasai/hey-bear-sub000/crawler"
)

// fallbackHeading is used when a crawled page carries no usable title.
const fallbackHeading = "Web Page Content"

// selectContent picks the best available representation of a crawl result,
// in strict priority order: rich markdown (with references appended), plain
// markdown, then cleaned HTML under a synthesized heading. Returns false
// when the result carries no usable content.
func selectContent(res *crawler.Result) (string, bool) {
	if v2 := res.MarkdownV2; v2 != nil && v2.RawMarkdown != "" {
		content := v2.RawMarkdown
		if v2.ReferencesMarkdown != "" {
			content += "\n\n" + v2.ReferencesMarkdown
		}
		return content, true
	}

	if res.Markdown != "" {
		return res.Markdown, true
	}

	if res.CleanedHTML != "" {
		return "# " + documentTitle(res) + "\n\n" + res.CleanedHTML, true
	}

	return "", false
}

// documentTitle returns the crawled page title, or the fallback heading.
func documentTitle(res *crawler.Result) string {
	if res.Metadata != nil && res.Metadata.Title != "" {
		return res.Metadata.Title
	}
	return fallbackHeading
}

// buildDocument assembles the final document: a delimited metadata header,
// the selected content, and an external-links section when the crawl
// discovered any. Returns false when no content representation is usable.
func buildDocument(res *crawler.Result, sourceURL string, crawledAt time.Time) (string, bool) {
	content, ok := selectContent(res)
	if !ok {
		return "", false
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("Title: " + documentTitle(res) + "\n")
	b.WriteString("Source: " + sourceURL + "\n")
	if res.Metadata != nil && res.Metadata.Description != "" {
		b.WriteString("Description: " + res.Metadata.Description + "\n")
	}
	if res.Metadata != nil && res.Metadata.Author != "" {
		b.WriteString("Author: " + res.Metadata.Author + "\n")
	}
	b.WriteString("Crawled: " + crawledAt.Format(time.RFC3339) + "\n")
	b.WriteString("---\n\n")
	b.WriteString(content)

	if res.Links != nil && len(res.Links.External) > 0 {
		b.WriteString("\n\n## External Links\n\n")
		for _, link := range res.Links.External {
			text := link.Text
			if text == "" {
				text = link.Href
			}
			b.WriteString("- [" + text + "](" + link.Href + ")")
			if link.Title != "" {
				b.WriteString(" - " + link.Title)
			}
			b.WriteString("\n")
		}
	}

	return b.String(), true
}
