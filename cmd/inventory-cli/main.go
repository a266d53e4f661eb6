package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"palletiq/inventoryintel/internal/app"
)

func main() {
	opts, err := parseFlags()
	if err != nil {
		logrus.Fatalf("inventory-cli: %v", err)
	}
	if err := app.Run(opts); err != nil {
		logrus.Fatalf("inventory-cli: %v", err)
	}
}

func parseFlags() (app.Options, error) {
	var opts app.Options
	flag.StringVar(&opts.ConfigPath, "config", "", "Path to config.json (default: ./config.json)")
	flag.StringVar(&opts.InputPath, "input", "", "CSV/TSV/XLSX inventory file to analyze")
	flag.StringVar(&opts.OutputPath, "output", "inventory_analysis_results.csv", "Results file (.csv or .xlsx)")
	flag.StringVar(&opts.InputOpts.IDColumn, "id-column", "", "Column name or #index for the inventory id column")
	flag.StringVar(&opts.InputOpts.DescriptionColumn, "description-column", "", "Column name or #index for the item description column")
	flag.StringVar(&opts.InputOpts.QuantityColumn, "quantity-column", "", "Column name or #index for the quantity column")
	flag.StringVar(&opts.InputOpts.CodeColumn, "code-column", "", "Column name or #index for the product code column")
	flag.StringVar(&opts.InputOpts.PriceColumn, "price-column", "", "Column name or #index for the supplier price column")
	flag.BoolVar(&opts.Report, "report", true, "Print the summary report to STDOUT")
	flag.BoolVar(&opts.Verbose, "verbose", false, "Enable debug logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s --input FILE [options]\n\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	opts.ConfigPath = strings.TrimSpace(opts.ConfigPath)
	opts.InputPath = strings.TrimSpace(opts.InputPath)
	opts.OutputPath = strings.TrimSpace(opts.OutputPath)

	if opts.InputPath == "" {
		flag.Usage()
		return opts, errors.New("missing required --input file")
	}
	if opts.OutputPath == "" {
		return opts, errors.New("missing --output path")
	}
	return opts, nil
}
