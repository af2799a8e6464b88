package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"media-sweep/internal/analytics"
	"media-sweep/internal/archive"
	"media-sweep/internal/asset"
	"media-sweep/internal/cleaner"
	"media-sweep/internal/config"
	"media-sweep/internal/entitlement"
	"media-sweep/internal/library"
	"media-sweep/internal/logging"
	"media-sweep/internal/preview"
	"media-sweep/internal/summary"
	ui "media-sweep/internal/tui"
	"media-sweep/pkg/format"
)

func main() {
	var (
		root       string
		category   string
		cfgPath    string
		jsonOut    bool
		useTUI     bool
		premium    bool
		dryRun     bool
		archiveDir string
	)

	flag.StringVar(&root, "path", "", "Media directory to scan (overrides config)")
	flag.StringVar(&root, "p", "", "Alias of --path")
	flag.StringVar(&category, "category", "", "Category to list non-interactively (e.g. \"Large Videos\")")
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file")
	flag.BoolVar(&jsonOut, "json", false, "Output JSON instead of table (non-interactive mode)")
	flag.BoolVar(&useTUI, "tui", true, "Run interactive TUI (default)")
	flag.BoolVar(&useTUI, "t", true, "Alias of --tui")
	flag.BoolVar(&premium, "premium", false, "Start with the premium entitlement unlocked")
	flag.BoolVar(&dryRun, "dry-run", false, "Do not delete anything; simulate deletion")
	flag.BoolVar(&dryRun, "d", false, "Alias of --dry-run")
	flag.StringVar(&archiveDir, "archive", "", "Back up files to a zip in this directory before deleting")
	flag.Parse()

	cfg := config.Load(cfgPath)
	if root != "" {
		cfg.Library.Root = root
	}
	if premium {
		cfg.Entitlement.Premium = true
	}
	if archiveDir != "" {
		cfg.Archive.Enabled = true
		cfg.Archive.Dir = archiveDir
	}

	log := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	absRoot, err := filepath.Abs(cfg.Library.Root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve path: %v\n", err)
		os.Exit(2)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lib := library.NewLocal(absRoot, cfg.Library.Concurrency, log)
	gate := entitlement.NewGate(ctx, entitlement.NewStaticStore(cfg.Entitlement.Premium))
	sink := analytics.NewLogSink(log)

	sess := preview.NewSession(lib, gate, sink, log, preview.Options{
		ScanLimit: cfg.Scan.Limit,
		Fetch: library.FetchOptions{
			Concurrency: cfg.Scan.Concurrency,
			Attempts:    cfg.Scan.RetryMax,
			RetryDelay:  cfg.Scan.RetryDelay,
			Timeout:     cfg.Scan.Timeout,
		},
	})

	if useTUI && !jsonOut && category == "" {
		flow := cleaner.NewFlow(lib, gate, sink, log)
		flow.SetDryRun(dryRun)
		if cfg.Archive.Enabled {
			dir := cfg.Archive.Dir
			flow.SetBackup(func(ctx context.Context, assets []asset.MediaAsset) error {
				path, size, err := archive.Backup(ctx, assets, lib.PathFor, dir)
				if err != nil {
					return err
				}
				log.Info().Str("path", path).Int64("bytes", size).Msg("backup written")
				return nil
			})
		}
		if err := ui.Run(sess, gate, flow, sink); err != nil {
			fmt.Fprintf(os.Stderr, "tui error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if category == "" {
		runOverview(ctx, sess, absRoot, jsonOut)
		return
	}
	runCategory(ctx, sess, category, jsonOut)
}

func runOverview(ctx context.Context, sess *preview.Session, root string, jsonOut bool) {
	start := time.Now()
	rows, total, err := summary.Overview(ctx, sess)
	if err != nil {
		fmt.Fprintf(os.Stderr, "overview failed: %v\n", err)
		os.Exit(1)
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		payload := struct {
			Root       string                    `json:"root"`
			Categories []summary.CategorySummary `json:"categories"`
			TotalSize  int64                     `json:"totalSize"`
			Duration   string                    `json:"duration"`
		}{Root: root, Categories: rows, TotalSize: total, Duration: time.Since(start).String()}
		if err := enc.Encode(payload); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write json: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Printf("media-sweep overview\nroot: %s\n", root)
	fmt.Println("----------------------------------------------")
	for _, r := range rows {
		if !r.Enumerable {
			fmt.Printf("%s\t(managed by the system)\n", r.Category.Title())
			continue
		}
		fmt.Printf("%s\t%d files\t%s\n", r.Category.Title(), r.Count, r.TotalHuman)
	}
	fmt.Println("----------------------------------------------")
	fmt.Printf("Reclaimable: %s\n", format.Size(total))
	fmt.Printf("Duration: %s\n", time.Since(start).Round(time.Millisecond))
}

func runCategory(ctx context.Context, sess *preview.Session, name string, jsonOut bool) {
	cat, err := asset.ParseCategory(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	load, err := sess.Load(ctx, cat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load failed: %v\n", err)
		os.Exit(1)
	}

	assets := load.List.Assets()
	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		payload := struct {
			Category  string             `json:"category"`
			Count     int                `json:"count"`
			TotalSize int64              `json:"totalSize"`
			Assets    []asset.MediaAsset `json:"assets"`
		}{Category: string(cat), Count: load.Count(), TotalSize: load.TotalSize(), Assets: assets}
		if err := enc.Encode(payload); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write json: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Printf("%s\nfound: %d\n", cat.Title(), load.Count())
	fmt.Println("----------------------------------------------")
	for _, a := range assets {
		line := fmt.Sprintf("%s\t%s", a.Filename, format.Size(a.SizeOrZero()))
		if a.MediaType == asset.MediaTypeVideo && a.Duration > 0 {
			line += "\t" + format.Duration(a.Duration)
		}
		if a.GroupKey != "" {
			line += "\tgroup " + a.GroupKey
		}
		fmt.Println(line)
	}
	fmt.Println("----------------------------------------------")
	fmt.Printf("Total size: %s\n", format.Size(load.TotalSize()))
}
