package search

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type Link struct {
	Text string
	Href string
}

type Links []Link

// MatchLinks returns, in document order, the anchors of a results page whose trimmed text
// contains text.
func MatchLinks(r io.Reader, text string) (Links, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failure creating goquery document from results page: %w", err)
	}
	links := make(Links, 0)
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		linkText := strings.Join(strings.Fields(s.Text()), " ")
		if linkText == "" || !strings.Contains(linkText, text) {
			return
		}
		href, _ := s.Attr("href")
		links = append(links, Link{
			Text: linkText,
			Href: href,
		})
	})
	return links, nil
}

func (ls Links) Hrefs() []string {
	hrefs := make([]string, len(ls))
	for i, l := range ls {
		hrefs[i] = l.Href
	}
	return hrefs
}
