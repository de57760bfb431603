package images

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Extract splits a free-text cell into URL candidates. Values may be separated
// by commas, pipes, semicolons or whitespace. Cells holding pasted HTML yield
// their <img src> and <a href> values instead.
func Extract(cell string) []string {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil
	}
	if strings.Contains(cell, "<") {
		if found := extractHTML(cell); len(found) > 0 {
			return found
		}
	}
	return strings.FieldsFunc(cell, func(r rune) bool {
		switch r {
		case ',', '|', ';', ' ', '\t', '\n', '\r':
			return true
		}
		return false
	})
}

func extractHTML(cell string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(cell))
	if err != nil {
		return nil
	}
	var out []string
	doc.Find("img, a").Each(func(_ int, s *goquery.Selection) {
		for _, attr := range []string{"src", "data-src", "href"} {
			if v, ok := s.Attr(attr); ok && strings.TrimSpace(v) != "" {
				out = append(out, v)
				return
			}
		}
	})
	return out
}
