// The reconciler ingests raw carrier rate workbooks, normalizes them
// and writes the versioned Master workbook with deltas.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"ratedesk/internal/config"
	"ratedesk/internal/infrastructure"
	"ratedesk/internal/master"
	"ratedesk/internal/normalize"
	"ratedesk/internal/parsing"
	"ratedesk/internal/reconcile"
	"ratedesk/internal/soc"
	"ratedesk/pkg/contracts/domain"
)

func main() {
	rawDir := flag.String("raw", "", "directory of raw rate .xlsx files (default from config)")
	dataDir := flag.String("data", "", "data directory for the Master workbook (default from config)")
	cutoffFlag := flag.String("cutoff", "", "expiry cutoff date YYYY-MM-DD (default today)")
	includeExpired := flag.Bool("include-expired", false, "keep expired rows in the Master sheet")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	if *rawDir == "" {
		*rawDir = cfg.Paths.RawDir
	}
	masterPath := cfg.Paths.MasterFile
	if *dataDir != "" {
		masterPath = filepath.Join(*dataDir, filepath.Base(cfg.Paths.MasterFile))
	}

	var cutoff time.Time
	if *cutoffFlag != "" {
		cutoff, err = time.Parse("2006-01-02", *cutoffFlag)
		if err != nil {
			logger.Error("invalid -cutoff value", "value", *cutoffFlag, "error", err)
			os.Exit(1)
		}
	}

	if err := run(cfg, logger, *rawDir, masterPath, cutoff, *includeExpired); err != nil {
		logger.Error("reconciliation failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger, rawDir, masterPath string, cutoff time.Time, includeExpired bool) error {
	files, err := listRawFiles(rawDir)
	if err != nil {
		return err
	}
	logger.Info("reconciliation started",
		slog.String("raw_dir", rawDir),
		slog.Int("files", len(files)))

	records, sources, err := parseAll(files, logger)
	if err != nil {
		return err
	}

	records = normalize.NormalizeCommodities(records)
	records = normalize.NormalizePlaces(records)
	records = soc.SubtractAtIngest(records)

	if ports, err := normalize.LoadPortMap(cfg.Paths.PortMapFile); err != nil {
		logger.Warn("port map unavailable, POD names kept as-is",
			slog.String("path", cfg.Paths.PortMapFile),
			slog.String("error", err.Error()))
	} else {
		records = normalize.NormalizePODs(records, ports)
	}

	if table, err := soc.LoadTable(cfg.Paths.PUCFile); err != nil {
		logger.Warn("PUC table unavailable, SOC port-use charges not restored",
			slog.String("path", cfg.Paths.PUCFile),
			slog.String("error", err.Error()))
	} else {
		records = table.AddAtReconcile(records)
	}

	result := reconcile.Reconcile(records, cutoff, includeExpired, logger)

	writer := master.NewWriter(logger)
	if err := writer.Write(masterPath, result.Current, result.Historical, sources); err != nil {
		return err
	}
	logger.Info("reconciliation finished",
		slog.Int("records", len(records)),
		slog.Int("current_rows", len(result.Current)),
		slog.Int("history_rows", len(result.Historical)))
	return nil
}

// listRawFiles returns the .xlsx files in dir, newest first so the
// version stamp comes from the latest upload.
func listRawFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read raw directory %s: %w", dir, err)
	}
	type fileInfo struct {
		path string
		mod  time.Time
	}
	files := make([]fileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.EqualFold(filepath.Ext(name), ".xlsx") || strings.HasPrefix(name, "~$") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", name, err)
		}
		files = append(files, fileInfo{path: filepath.Join(dir, name), mod: info.ModTime()})
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].mod.After(files[j].mod)
	})
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.path
	}
	return paths, nil
}

// parseAll parses every raw file concurrently. Undetectable files are
// skipped inside the parser; a corrupt workbook fails the run.
func parseAll(files []string, logger *slog.Logger) ([]domain.RateRecord, []string, error) {
	var (
		g       errgroup.Group
		mu      sync.Mutex
		records []domain.RateRecord
		sources []string
	)
	g.SetLimit(4)

	// sources keeps the newest-first file order for the version stamp.
	for _, path := range files {
		sources = append(sources, filepath.Base(path))
	}

	parser := parsing.NewParser(logger)
	for _, path := range files {
		path := path
		g.Go(func() error {
			recs, err := parser.ParseFile(path)
			if err != nil {
				return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
			}
			mu.Lock()
			records = append(records, recs...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return records, sources, nil
}
