// cmd/compare runs a single purchase order / sales order comparison locally
// and prints the report as JSON.
//
// Usage:
//
//	go run ./cmd/compare -po purchase.pdf -so sales.xlsx
//	go run ./cmd/compare -po po.json -so so.json -records
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"ordermatch-backend/comparison"
	"ordermatch-backend/config"
	"ordermatch-backend/extraction"
	"ordermatch-backend/logger"
	"ordermatch-backend/models"

	"github.com/google/generative-ai-go/genai"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"
)

func main() {
	poPath := flag.String("po", "", "Path to the purchase order document")
	soPath := flag.String("so", "", "Path to the sales order document")
	records := flag.Bool("records", false, "Treat -po and -so as extracted order record JSON files")
	noSummary := flag.Bool("no-summary", false, "Skip the generated summary and use the fallback text")
	flag.Parse()

	if *poPath == "" || *soPath == "" {
		fmt.Fprintln(os.Stderr, "usage: compare -po <file> -so <file> [-records] [-no-summary]")
		os.Exit(2)
	}

	cfg := config.Load()
	log := logger.InitWithWriter(os.Stderr, "ordermatch-compare", cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	engineOpts := []comparison.EngineOption{comparison.WithPolicy(cfg.Policy())}

	var client *genai.Client
	if !*records || !*noSummary {
		c, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
		if err != nil {
			log.Error("Failed to initialize Gemini", "error", err)
			os.Exit(1)
		}
		defer c.Close()
		client = c
	}
	if !*noSummary {
		engineOpts = append(engineOpts, comparison.WithSummarizer(extraction.NewGeminiSummarizer(client, cfg.GeminiModel)))
	}

	var po, so *models.OrderRecord
	var err error
	if *records {
		po, so, err = loadRecords(*poPath, *soPath)
	} else {
		po, so, err = extractRecords(ctx, extraction.NewGeminiExtractor(client, cfg.GeminiModel), *poPath, *soPath)
	}
	if err != nil {
		log.Error("Failed to read orders", "error", err)
		os.Exit(1)
	}

	report, err := comparison.NewEngine(engineOpts...).Compare(ctx, po, so)
	if err != nil {
		log.Error("Comparison failed", "error", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		log.Error("Failed to write report", "error", err)
		os.Exit(1)
	}
}

func extractRecords(ctx context.Context, extractor comparison.Extractor, poPath, soPath string) (*models.OrderRecord, *models.OrderRecord, error) {
	var po, so *models.OrderRecord

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		doc, err := readDocument(poPath)
		if err != nil {
			return err
		}
		po, err = extractor.Extract(gctx, doc, models.OrderKindPurchase)
		return err
	})
	g.Go(func() error {
		doc, err := readDocument(soPath)
		if err != nil {
			return err
		}
		so, err = extractor.Extract(gctx, doc, models.OrderKindSales)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return po, so, nil
}

func readDocument(path string) (models.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Document{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return models.Document{Name: filepath.Base(path), Data: data}, nil
}

func loadRecords(poPath, soPath string) (*models.OrderRecord, *models.OrderRecord, error) {
	po, err := readRecord(poPath)
	if err != nil {
		return nil, nil, err
	}
	so, err := readRecord(soPath)
	if err != nil {
		return nil, nil, err
	}
	return po, so, nil
}

func readRecord(path string) (*models.OrderRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var rec models.OrderRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("invalid order record in %s: %w", path, err)
	}
	return &rec, nil
}
