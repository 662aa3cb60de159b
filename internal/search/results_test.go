package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const resultsHTML = `<html><body>
<a href="/preferences">Settings</a>
<div class="g"><a href="https://www.selenium.dev/"><h3>Selenium</h3></a></div>
<div class="g"><a href="https://github.com/SeleniumHQ/selenium">SeleniumHQ/selenium:
   A browser automation framework</a></div>
<div class="g"><a href="https://en.wikipedia.org/wiki/Selenium">selenium - Wikipedia</a></div>
<a href="/empty"></a>
</body></html>`

func TestMatchLinks(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		assertions func(*assert.Assertions, Links, error)
	}{
		{
			name: "partial match in document order",
			text: "Selenium",
			assertions: func(a *assert.Assertions, links Links, err error) {
				a.Nil(err)
				a.Equal(Links{
					{Text: "Selenium", Href: "https://www.selenium.dev/"},
					{Text: "SeleniumHQ/selenium: A browser automation framework", Href: "https://github.com/SeleniumHQ/selenium"},
				}, links)
			},
		},
		{
			name: "match is case sensitive",
			text: "selenium -",
			assertions: func(a *assert.Assertions, links Links, err error) {
				a.Nil(err)
				a.Equal([]string{"https://en.wikipedia.org/wiki/Selenium"}, links.Hrefs())
			},
		},
		{
			name: "no match",
			text: "Playwright",
			assertions: func(a *assert.Assertions, links Links, err error) {
				a.Nil(err)
				a.Empty(links)
			},
		},
		{
			name: "empty anchors never match",
			text: "",
			assertions: func(a *assert.Assertions, links Links, err error) {
				a.Nil(err)
				a.Len(links, 4)
				a.NotContains(links.Hrefs(), "/empty")
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			links, err := MatchLinks(strings.NewReader(resultsHTML), tt.text)
			tt.assertions(assert.New(t), links, err)
		})
	}
}
