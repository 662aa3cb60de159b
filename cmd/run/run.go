package run

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/searchclick/searchclick/cmd"
	"github.com/searchclick/searchclick/internal/browser"
	"github.com/searchclick/searchclick/internal/config"
	"github.com/searchclick/searchclick/internal/probe"
	"github.com/searchclick/searchclick/internal/search"
	"github.com/searchclick/searchclick/pkg/logger"
)

type launchFunc func(ctx context.Context, conf config.Browser, logger *slog.Logger) (browser.Browser, error)

type runner struct {
	transport http.RoundTripper
	launch    launchFunc
}

func NewCommand(ctx context.Context) *cobra.Command {
	var conf *config.Config
	command := &cobra.Command{
		Use:   fmt.Sprintf("%s [command]", cmd.CommandNameRun),
		Short: "Open the search page, search and click the first matching result",
		PreRunE: func(c *cobra.Command, args []string) error {
			confPath, err := c.Flags().GetString(cmd.FlagNameConfigFile)
			if err != nil {
				return err
			}
			if conf, err = config.New(confPath, true); err != nil {
				return fmt.Errorf("error loading config: %w", err)
			}
			if err = conf.Validate(); err != nil {
				return fmt.Errorf("error validating config: %w", err)
			}
			return nil
		},
		RunE: func(c *cobra.Command, args []string) error {
			verbose, err := c.Flags().GetBool(cmd.FlagNameVerbose)
			if err != nil {
				return err
			}
			r := &runner{
				transport: http.DefaultTransport,
				launch:    browser.Launch,
			}
			return r.run(ctx, conf, logger.NewLogger(c.OutOrStdout(), verbose))
		},
	}
	return command
}

// run releases the browser on every path once it has been launched.
func (r *runner) run(ctx context.Context, conf *config.Config, log *slog.Logger) error {
	if conf.Search.Preflight {
		if err := probe.New(r.transport, log).Check(ctx, conf.Search.URL); err != nil {
			log.Error("failure probing search page", logger.Error(err))
			return fmt.Errorf("failure probing search page: %w", err)
		}
	}
	b, err := r.launch(ctx, conf.Browser, log)
	if err != nil {
		log.Error("failure launching browser", logger.Error(err))
		return err
	}
	defer func() {
		if err := b.Close(); err != nil {
			log.Error("failure closing browser", logger.Error(err))
		}
	}()
	results, err := search.NewRunner(conf.Search, b, log).Run(ctx)
	if err != nil {
		log.Error("failure running search", logger.Error(err))
		return err
	}
	for _, res := range results {
		log.Info("search result",
			slog.String("term", res.Term),
			slog.String("text", res.Link.Text),
			slog.String("href", res.Link.Href),
			slog.String("url", res.URL),
		)
	}
	return nil
}
