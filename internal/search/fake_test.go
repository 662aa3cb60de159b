package search

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/searchclick/searchclick/internal/browser"
)

var errFake = errors.New("fake failure")

type fakeBrowser struct {
	mu      sync.Mutex
	tabs    []*fakeTab
	newTab  func(n int) (*fakeTab, error)
	maxOpen int
	open    int
}

func (b *fakeBrowser) NewTab() (browser.Tab, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, err := b.newTab(len(b.tabs))
	if err != nil {
		return nil, err
	}
	t.browser = b
	b.tabs = append(b.tabs, t)
	b.open++
	b.maxOpen = max(b.maxOpen, b.open)
	return t, nil
}

func (b *fakeBrowser) Close() error {
	return nil
}

func (b *fakeBrowser) closed() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, t := range b.tabs {
		if t.closed {
			n++
		}
	}
	return n
}

type fakeTab struct {
	browser *fakeBrowser

	navigateErr error
	elementErr  error
	linkErr     error
	html        string
	url         string
	box         *fakeElement
	link        *fakeElement

	navigated    string
	selector     string
	linkText     string
	waitTimeouts []time.Duration
	closed       bool
}

func newFakeTab(html string) *fakeTab {
	return &fakeTab{
		html: html,
		url:  "https://www.selenium.dev/",
		box:  &fakeElement{},
		link: &fakeElement{
			text: "Selenium",
			href: "https://www.selenium.dev/",
		},
	}
}

func (t *fakeTab) Navigate(url string) error {
	t.navigated = url
	return t.navigateErr
}

func (t *fakeTab) WaitElement(selector string, timeout time.Duration) (browser.Element, error) {
	t.selector = selector
	t.waitTimeouts = append(t.waitTimeouts, timeout)
	if t.elementErr != nil {
		return nil, t.elementErr
	}
	return t.box, nil
}

func (t *fakeTab) WaitLink(text string, timeout time.Duration) (browser.Element, error) {
	t.linkText = text
	t.waitTimeouts = append(t.waitTimeouts, timeout)
	if t.linkErr != nil {
		return nil, t.linkErr
	}
	return t.link, nil
}

func (t *fakeTab) HTML() (string, error) {
	return t.html, nil
}

func (t *fakeTab) URL() (string, error) {
	return t.url, nil
}

func (t *fakeTab) Close() error {
	t.browser.mu.Lock()
	defer t.browser.mu.Unlock()
	t.closed = true
	t.browser.open--
	return nil
}

type fakeElement struct {
	inputs    []string
	submitted bool
	clicked   bool
	clickErr  error
	text      string
	href      string
}

func (e *fakeElement) Input(text string) error {
	e.inputs = append(e.inputs, text)
	return nil
}

func (e *fakeElement) Submit() error {
	if len(e.inputs) == 0 {
		return fmt.Errorf("submit without input")
	}
	e.submitted = true
	return nil
}

func (e *fakeElement) Click() error {
	if e.clickErr != nil {
		return e.clickErr
	}
	e.clicked = true
	return nil
}

func (e *fakeElement) Text() (string, error) {
	return e.text, nil
}

func (e *fakeElement) Href() (string, error) {
	return e.href, nil
}
