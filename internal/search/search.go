package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/searchclick/searchclick/internal/browser"
	"github.com/searchclick/searchclick/internal/config"
	"github.com/searchclick/searchclick/pkg/logger"
)

type Runner struct {
	conf    config.Search
	browser browser.Browser
	logger  *slog.Logger
	sleep   func(ctx context.Context, d time.Duration) error
}

// Result describes the link a search clicked and where the tab ended up afterwards.
type Result struct {
	Term string
	Link Link
	URL  string
}

func NewRunner(conf config.Search, b browser.Browser, logger *slog.Logger) *Runner {
	return &Runner{
		conf:    conf,
		browser: b,
		logger:  logger,
		sleep:   sleepContext,
	}
}

// Run searches every configured term, each in its own tab, with at most Parallelism tabs
// open at once. The first failure cancels the searches that have not finished yet.
func (r *Runner) Run(ctx context.Context) ([]Result, error) {
	results := make([]Result, len(r.conf.Terms))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(r.conf.Parallelism, 1))
	for i, term := range r.conf.Terms {
		g.Go(func() error {
			res, err := r.RunTerm(gctx, term)
			if err != nil {
				return fmt.Errorf("failure searching for term %q: %w", term, err)
			}
			results[i] = *res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	r.logger.Info("successfully ran all searches", slog.Int("count", len(results)))
	return results, nil
}

func (r *Runner) RunTerm(ctx context.Context, term string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := r.logger.With(slog.String("term", term))
	tab, err := r.browser.NewTab()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := tab.Close(); err != nil {
			log.Warn("failure closing tab", logger.Error(err))
		}
	}()
	if err = tab.Navigate(r.conf.URL); err != nil {
		return nil, err
	}
	log.Info("opened search page", slog.String("url", r.conf.URL))
	selector := inputSelector(r.conf.InputName)
	searchBox, err := tab.WaitElement(selector, r.conf.Timeout)
	if err != nil {
		return nil, err
	}
	if err = searchBox.Input(term); err != nil {
		return nil, err
	}
	if err = searchBox.Submit(); err != nil {
		return nil, err
	}
	log.Info("submitted search", slog.String("selector", selector))
	linkText := r.conf.LinkTextFor(term)
	link, err := tab.WaitLink(linkText, r.conf.Timeout)
	if err != nil {
		return nil, err
	}
	r.logCandidates(log, tab, linkText)
	text, err := link.Text()
	if err != nil {
		return nil, err
	}
	href, err := link.Href()
	if err != nil {
		return nil, err
	}
	if err = ctx.Err(); err != nil {
		return nil, err
	}
	if err = link.Click(); err != nil {
		return nil, err
	}
	log.Info("clicked search result", slog.String("text", text), slog.String("href", href))
	if err = r.sleep(ctx, r.conf.Linger); err != nil {
		return nil, fmt.Errorf("interrupted while lingering on search result: %w", err)
	}
	landed, err := tab.URL()
	if err != nil {
		return nil, err
	}
	log.Info("finished search", slog.String("url", landed), slog.String("linger", r.conf.Linger.String()))
	return &Result{
		Term: term,
		Link: Link{
			Text: text,
			Href: href,
		},
		URL: landed,
	}, nil
}

// logCandidates reports every result link matching linkText. It never fails the search.
func (r *Runner) logCandidates(log *slog.Logger, tab browser.Tab, linkText string) {
	html, err := tab.HTML()
	if err != nil {
		log.Warn("failure reading results page", logger.Error(err))
		return
	}
	links, err := MatchLinks(strings.NewReader(html), linkText)
	if err != nil {
		log.Warn("failure matching result links", logger.Error(err))
		return
	}
	log.Debug("found candidate result links",
		slog.String("linkText", linkText),
		slog.Int("count", len(links)),
		slog.Any("hrefs", links.Hrefs()),
	)
}

// inputSelector builds an attribute selector with name as a CSS string. Quotes and
// backslashes are escaped and control characters become hex escapes.
func inputSelector(name string) string {
	var sb strings.Builder
	sb.WriteString(`[name="`)
	for _, r := range name {
		switch {
		case r == '"' || r == '\\':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&sb, "\\%x ", r)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteString(`"]`)
	return sb.String()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
