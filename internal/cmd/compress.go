package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/nguyengg/eic/internal"
	"github.com/nguyengg/eic/internal/config"
	"github.com/nguyengg/eic/internal/report"
	"github.com/nguyengg/eic/pipeline"
)

// extensions are the spreadsheet package extensions compressed without --force.
var extensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".xltx": true,
	".xltm": true,
}

type Compress struct {
	Quality *int    `short:"q" long:"quality" description:"JPEG quality between 0 and 100; lower is smaller (default: 20)"`
	Colors  *int    `long:"colors" description:"number of colors PNG images are quantized to with --png=palette (default: 64)"`
	PNG     *string `long:"png" choice:"jpeg" choice:"palette" description:"convert PNG images to JPEG over a white background, or quantize them to a palette (default: jpeg)"`
	Jobs    *int    `short:"j" long:"jobs" description:"number of files to compress at the same time (default: 1)"`
	Force   bool    `long:"force" description:"compress files even if they do not have a spreadsheet extension"`
	Args    struct {
		Files []flags.Filename `positional-arg-name:"file" description:"the spreadsheet files to be compressed" required:"yes"`
	} `positional-args:"yes"`
}

func (c *Compress) Execute(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("unknown positional arguments: %s", strings.Join(args, " "))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if name, err := config.Load(ctx); err != nil {
		log.Printf(`load config "%s" error: %v`, name, err)
	}

	defer internal.SetupLog(config.ForLog()).Close()

	cfg := c.override(config.ForCompress())
	if err := cfg.Validate(); err != nil {
		return err
	}

	n := len(c.Args.Files)
	inputs := make([]string, 0, n)
	ordinals := make([]int, 0, n)
	for i, file := range c.Args.Files {
		if !c.Force && !extensions[strings.ToLower(filepath.Ext(string(file)))] {
			internal.NewLogger(i, n, string(file)).Printf("skipped: not a spreadsheet file (use --force to compress anyway)")
			continue
		}

		inputs = append(inputs, string(file))
		ordinals = append(ordinals, i)
	}

	outcomes := pipeline.RunAllFunc(ctx, inputs, cfg.Jobs, func(ctx context.Context, i int, input string) pipeline.Outcome {
		logger := internal.NewLogger(ordinals[i], n, input)

		var progress pipeline.ProgressSink
		if cfg.Jobs == 1 {
			bar := report.NewBar("compressing")
			defer bar.Close()
			progress = bar
		} else {
			progress = report.NewSometimes(logger, 5*time.Second)
		}

		sink := report.NewAsync(progress, report.Logger{Logger: logger})
		defer sink.Close()

		return pipeline.New(sink, sink, func(opts *pipeline.Options) {
			opts.Config = cfg.Recode()
		}).Run(ctx, input)
	})

	success := 0
	for _, out := range outcomes {
		if out.Succeeded() {
			success++
		}
	}

	log.Printf("successfully compressed %d/%d files", success, n)
	return nil
}

// override applies the flags that were given on top of the configuration file.
func (c *Compress) override(cfg config.CompressConfig) config.CompressConfig {
	if c.Quality != nil {
		cfg.Quality = *c.Quality
	}
	if c.Colors != nil {
		cfg.PaletteColors = *c.Colors
	}
	if c.PNG != nil {
		cfg.PNG = *c.PNG
	}
	if c.Jobs != nil {
		cfg.Jobs = *c.Jobs
	}

	return cfg
}
