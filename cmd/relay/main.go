// Command relay runs the staged agent pipeline headlessly: it explores,
// plans, and implements one task against an OpenAI-compatible engine,
// then prints a run summary.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/entrhq/relay/pkg/engine/openai"
	"github.com/entrhq/relay/pkg/pipeline"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to YAML config file")
		task       = flag.String("task", "", "Task for the pipeline to perform (required)")
		model      = flag.String("model", "", "Model identifier (overrides config)")
		apiKey     = flag.String("api-key", "", "API key (defaults to OPENAI_API_KEY)")
		baseURL    = flag.String("base-url", "", "Engine base URL (overrides config)")
		output     = flag.String("output", "", "Write JSON run summary to this path")
		verbosity  = flag.String("verbosity", "", "Console verbosity: quiet, normal, verbose")
	)
	flag.Parse()

	if *task == "" {
		fmt.Fprintln(os.Stderr, "Error: -task is required")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := resolveConfig(*configPath, *model, *baseURL, *output, *verbosity)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *apiKey, *task); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// resolveConfig loads the config file if given and overlays CLI flags.
func resolveConfig(path, model, baseURL, output, verbosity string) (*pipeline.Config, error) {
	cfg := pipeline.DefaultConfig()
	if path != "" {
		loaded, err := pipeline.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if model != "" {
		cfg.Model = model
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if output != "" {
		cfg.SummaryPath = output
	}
	if verbosity != "" {
		cfg.Verbosity = verbosity
	}

	return cfg, cfg.Validate()
}

func run(ctx context.Context, cfg *pipeline.Config, apiKey, task string) error {
	adapterOpts := []openai.AdapterOption{
		openai.WithTools(openai.DefaultCapabilitySchemas()),
	}
	if cfg.Model != "" {
		adapterOpts = append(adapterOpts, openai.WithModel(cfg.Model))
	}
	if cfg.BaseURL != "" {
		adapterOpts = append(adapterOpts, openai.WithBaseURL(cfg.BaseURL))
	}

	adapter, err := openai.NewAdapter(apiKey, adapterOpts...)
	if err != nil {
		return err
	}

	driver := pipeline.New(adapter, cfg,
		pipeline.WithObserver(pipeline.NewConsoleObserver(cfg.Verbosity)))

	summary, runErr := driver.Run(ctx, task)

	if cfg.SummaryPath != "" && summary != nil {
		if err := summary.WriteJSON(cfg.SummaryPath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	if runErr != nil {
		return runErr
	}

	fmt.Printf("\nCompleted in %s across %d stages.\n",
		summary.CompletedAt.Sub(summary.StartedAt).Round(time.Millisecond), len(summary.Stages))
	return nil
}
