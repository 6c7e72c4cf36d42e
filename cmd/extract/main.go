package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/hinote/backend/config"
	"github.com/hinote/backend/internal/domain"
	"github.com/hinote/backend/internal/infrastructure/groq"
	"github.com/hinote/backend/internal/infrastructure/spreadsheet"
	"github.com/hinote/backend/internal/logger"
	"github.com/hinote/backend/internal/usecase"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type options struct {
	catalogPath string
	sheet       string
	configFile  string
	offline     bool
	utterance   string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "extract [flags] utterance...",
		Short: "Extract a structured order from a spoken Vietnamese utterance",
		Long: "Extract a structured order from a spoken Vietnamese utterance.\n" +
			"Reads the utterance from stdin when no arguments are given.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			utterance := strings.TrimSpace(strings.Join(args, " "))
			if utterance == "" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				utterance = strings.TrimSpace(string(data))
			}
			if utterance == "" {
				return errors.New("no utterance given")
			}
			opts.utterance = utterance

			log, err := logger.New(logger.Options{Level: "warn", Format: "text", Output: cmd.ErrOrStderr()})
			if err != nil {
				return err
			}
			return run(cmd.Context(), opts, cmd.OutOrStdout(), log)
		},
	}

	cmd.Flags().StringVarP(&opts.catalogPath, "catalog", "c", "", "xlsx catalog (columns: id, name, aliases, price)")
	cmd.Flags().StringVarP(&opts.sheet, "sheet", "s", "", "sheet name (default: first sheet)")
	cmd.Flags().BoolVar(&opts.offline, "offline", false, "skip the language model and use the deterministic extractor")
	cmd.Flags().StringVar(&opts.configFile, "config", "", "path to a config file")

	return cmd
}

func run(ctx context.Context, opts options, stdout io.Writer, log logrus.FieldLogger) error {
	var catalog []domain.Product
	if opts.catalogPath != "" {
		products, err := spreadsheet.LoadCatalog(opts.catalogPath, opts.sheet)
		if err != nil {
			return err
		}
		catalog = products
	}

	var result domain.ExtractionResult
	if opts.offline {
		result = usecase.FallbackExtract(opts.utterance, catalog)
	} else {
		extractor, err := newExtractor(opts.configFile, log)
		if err != nil {
			return err
		}
		result = extractor.Extract(ctx, opts.utterance, catalog)
	}

	return printResult(stdout, result)
}

func newExtractor(configFile string, log logrus.FieldLogger) (*usecase.RemoteExtractor, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	var client domain.CompletionClient
	if cfg.LLM.Enabled() {
		client = groq.NewClient(groq.Options{
			APIKey:            cfg.LLM.APIKey,
			BaseURL:           cfg.LLM.BaseURL,
			Timeout:           cfg.LLM.Timeout,
			RequestsPerMinute: cfg.LLM.RequestsPerMinute,
			MaxRetries:        cfg.LLM.MaxRetries,
			Logger:            log,
		})
	} else {
		log.Warn("HINOTE_LLM_API_KEY not set; using the deterministic extractor")
	}

	return usecase.NewRemoteExtractor(client, usecase.RemoteExtractorConfig{
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     cfg.LLM.Timeout,
	}, log), nil
}

func printResult(w io.Writer, result domain.ExtractionResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(result); err != nil {
		return err
	}

	fmt.Fprintln(w)
	if result.Table != nil {
		fmt.Fprintf(w, "Bàn: %s\n", *result.Table)
	}
	for _, item := range result.Items {
		price := "?"
		if item.Price != nil {
			price = domain.FormatMoney(*item.Price)
		}
		marker := ""
		if !item.Matched() {
			marker = " (mới)"
		}
		fmt.Fprintf(w, "- %d x %s  %s%s\n", item.Quantity, item.Name, price, marker)
	}
	if result.Note != nil {
		fmt.Fprintf(w, "Ghi chú: %s\n", *result.Note)
	}
	total := result.Total()
	fmt.Fprintf(w, "Tổng: %s (%s)\n", domain.FormatMoney(total), domain.FormatMoneyShort(total))
	return nil
}
