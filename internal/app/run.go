package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"palletiq/inventoryintel/analyzer"
)

// Options control a single batch run.
type Options struct {
	ConfigPath string
	InputPath  string
	OutputPath string
	InputOpts  analyzer.InputParseOptions
	Report     bool
	Verbose    bool
}

// Run executes the enrichment batch end to end: load environment and
// config, build the lookup clients (degrading gracefully when the catalog
// credential is unavailable), resolve every row, write the results file,
// and print the summary report.
func Run(opts Options) error {
	_ = godotenv.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if opts.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	cfg, err := analyzer.LoadConfig(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	items, err := analyzer.ParseInventoryFileWithOptions(opts.InputPath, opts.InputOpts)
	if err != nil {
		return fmt.Errorf("read inventory: %w", err)
	}
	if len(items) == 0 {
		return errors.New("input file does not contain any inventory rows")
	}
	logger.WithFields(logrus.Fields{"path": opts.InputPath, "items": len(items)}).Info("inventory loaded")

	resolver, search := buildResolver(cfg, logger)
	service, err := analyzer.NewService(resolver, logger)
	if err != nil {
		return err
	}

	results := service.AnalyzeAll(context.Background(), items)
	if err := analyzer.WriteResults(opts.OutputPath, results); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	logger.WithField("path", opts.OutputPath).Info("results written")

	if opts.Report {
		var stats *analyzer.CacheStats
		if search != nil {
			s := search.Stats()
			stats = &s
		}
		printReport(os.Stdout, results, stats)
	}
	return nil
}

// buildResolver assembles the source pipeline. The catalog-backed sources
// are only added when a usable credential is present; a broken key file
// logs a warning and leaves the run on code lookups alone.
func buildResolver(cfg analyzer.Config, logger *logrus.Logger) (*analyzer.Resolver, *analyzer.SearchFallback) {
	codeClient := analyzer.NewCodeLookupClient(cfg.Clients, logger)
	sources := []analyzer.Source{
		analyzer.NewCodeLookupSource(codeClient, cfg.TargetDomain, logger),
	}
	creds, ok := analyzer.CredentialsFromEnv()
	if !ok {
		logger.Info("no catalog credential configured; identifier lookups only")
		return analyzer.NewResolver(sources, logger), nil
	}
	retail, err := analyzer.NewRetailClient(creds, cfg.Clients, logger)
	if err != nil {
		logger.WithError(err).Warn("catalog client disabled")
		return analyzer.NewResolver(sources, logger), nil
	}
	sources = append(sources, analyzer.NewRetailerDirectSource(retail, cfg, logger))
	search := analyzer.NewSearchFallback(retail, cfg, logger)
	sources = append(sources, analyzer.NewRetailerSearchSource(search))
	return analyzer.NewResolver(sources, logger), search
}
