package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/searchclick/searchclick/internal/config"
)

type Browser interface {
	NewTab() (Tab, error)
	Close() error
}

type Tab interface {
	Navigate(url string) error
	WaitElement(selector string, timeout time.Duration) (Element, error)
	WaitLink(text string, timeout time.Duration) (Element, error)
	HTML() (string, error)
	URL() (string, error)
	Close() error
}

type Element interface {
	Input(text string) error
	Submit() error
	Click() error
	Text() (string, error)
	Href() (string, error)
}

// jsPartialLinkText resolves to the first rendered anchor whose visible text, with runs of
// whitespace collapsed, contains the argument.
const jsPartialLinkText = `(text) => Array.from(document.querySelectorAll("a")).find(a =>
	a.getClientRects().length > 0 && a.innerText.replace(/\s+/g, " ").trim().includes(text)
) || null`

type session struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	logger   *slog.Logger
	stealth  bool
	once     sync.Once
	closeErr error
}

func Launch(ctx context.Context, conf config.Browser, logger *slog.Logger) (Browser, error) {
	l := newLauncher(ctx, conf)
	browserURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failure launching browser: %w", err)
	}
	browser := rod.New().Context(ctx).ControlURL(browserURL).Trace(conf.Trace)
	if err = browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failure connecting to browser: %w", err)
	}
	logger.Info("launched new browser instance",
		slog.String("url", browserURL),
		slog.Bool("headless", conf.Headless),
		slog.Bool("trace", conf.Trace),
		slog.Bool("stealth", conf.Stealth),
		slog.Bool("noSandbox", conf.NoSandbox),
		slog.Any("excludeSwitches", conf.ExcludeSwitches),
		slog.String("path", l.Get(flags.Bin)),
	)
	return &session{
		browser:  browser,
		launcher: l,
		logger:   logger,
		stealth:  conf.Stealth,
	}, nil
}

func newLauncher(ctx context.Context, conf config.Browser) *launcher.Launcher {
	l := launcher.New().Context(ctx).
		Headless(conf.Headless).
		Bin(getBrowserPathOrFallback(conf.Path)).
		NoSandbox(conf.NoSandbox).
		Set("disable-search-engine-choice-screen").
		Set("no-default-browser-check")
	for _, name := range conf.ExcludeSwitches {
		l = l.Delete(flags.Flag(name))
	}
	return l
}

func (s *session) NewTab() (Tab, error) {
	var (
		page *rod.Page
		err  error
	)
	if s.stealth {
		page, err = stealth.Page(s.browser)
	} else {
		page, err = s.browser.Page(proto.TargetCreateTarget{})
	}
	if err != nil {
		return nil, fmt.Errorf("failure opening browser tab: %w", err)
	}
	return &tab{
		page:   page,
		logger: s.logger,
	}, nil
}

// Close releases the browser process and its temporary profile. Calling it more than once
// returns the result of the first call.
func (s *session) Close() error {
	s.once.Do(func() {
		if err := s.browser.Close(); err != nil {
			s.closeErr = fmt.Errorf("failure closing browser: %w", err)
		}
		s.launcher.Kill()
		s.launcher.Cleanup()
		s.logger.Info("closed browser instance")
	})
	return s.closeErr
}

type tab struct {
	page   *rod.Page
	logger *slog.Logger
}

func (t *tab) Navigate(url string) error {
	if err := t.page.Navigate(url); err != nil {
		return fmt.Errorf("failure navigating to url %s: %w", url, err)
	}
	if err := t.page.WaitLoad(); err != nil {
		return fmt.Errorf("failure waiting for tab %s to load: %w", url, err)
	}
	return nil
}

func (t *tab) WaitElement(selector string, timeout time.Duration) (Element, error) {
	el, err := t.page.Timeout(timeout).Element(selector)
	if err != nil {
		return nil, wrapWait(fmt.Sprintf("element %s", selector), timeout, err)
	}
	return &element{
		el:      el.CancelTimeout(),
		what:    fmt.Sprintf("element %s", selector),
		timeout: timeout,
	}, nil
}

func (t *tab) WaitLink(text string, timeout time.Duration) (Element, error) {
	what := fmt.Sprintf("link containing text %q", text)
	el, err := t.page.Timeout(timeout).ElementByJS(rod.Eval(jsPartialLinkText, text))
	if err != nil {
		return nil, wrapWait(what, timeout, err)
	}
	return &element{
		el:      el.CancelTimeout(),
		what:    what,
		timeout: timeout,
	}, nil
}

func (t *tab) HTML() (string, error) {
	html, err := t.page.HTML()
	if err != nil {
		return "", fmt.Errorf("failure reading tab html: %w", err)
	}
	return html, nil
}

func (t *tab) URL() (string, error) {
	info, err := t.page.Info()
	if err != nil {
		return "", fmt.Errorf("failure reading tab info: %w", err)
	}
	return info.URL, nil
}

func (t *tab) Close() error {
	if err := t.page.Close(); err != nil {
		return fmt.Errorf("failure closing tab: %w", err)
	}
	return nil
}

// element bounds every interaction by the timeout of the wait that found it, so an element
// that never becomes interactable fails instead of being retried forever.
type element struct {
	el      *rod.Element
	what    string
	timeout time.Duration
}

func (e *element) Input(text string) error {
	el := e.el.Timeout(e.timeout)
	defer el.CancelTimeout()
	if err := el.Input(text); err != nil {
		return e.wrapInteraction("to accept input", "failure inputting value", err)
	}
	return nil
}

func (e *element) Submit() error {
	el := e.el.Timeout(e.timeout)
	defer el.CancelTimeout()
	if err := el.Type(input.Enter); err != nil {
		return e.wrapInteraction("to accept enter", "failure pressing enter", err)
	}
	return nil
}

func (e *element) Click() error {
	el := e.el.Timeout(e.timeout)
	defer el.CancelTimeout()
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return e.wrapInteraction("to become clickable", "failure clicking on element", err)
	}
	return nil
}

func (e *element) wrapInteraction(state, failure string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return NewWaitTimeoutError(fmt.Sprintf("%s %s", e.what, state), e.timeout)
	}
	return fmt.Errorf("%s: %w", failure, err)
}

func (e *element) Text() (string, error) {
	text, err := e.el.Text()
	if err != nil {
		return "", fmt.Errorf("failure extracting element text: %w", err)
	}
	return text, nil
}

func (e *element) Href() (string, error) {
	href, err := e.el.Attribute("href")
	if err != nil {
		return "", fmt.Errorf("failure extracting href from element: %w", err)
	}
	if href == nil {
		return "", nil
	}
	return *href, nil
}

func wrapWait(what string, timeout time.Duration, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return NewWaitTimeoutError(what, timeout)
	}
	return fmt.Errorf("failure waiting for %s: %w", what, err)
}

func getBrowserPathOrFallback(path string) string {
	if path != "" {
		return path
	}
	if browserPath, found := launcher.LookPath(); found {
		return browserPath
	}
	return ""
}
