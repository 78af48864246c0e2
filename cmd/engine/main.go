package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"mailharvest-engine/internal/classifier"
	"mailharvest-engine/internal/config"
	"mailharvest-engine/internal/extract"
	"mailharvest-engine/internal/filter"
	"mailharvest-engine/internal/ner"
	"mailharvest-engine/internal/report"
	"mailharvest-engine/internal/rules"
	"mailharvest-engine/internal/run"
	"mailharvest-engine/internal/scheduler"
	"mailharvest-engine/internal/secrets"
	"mailharvest-engine/internal/sink"
	"mailharvest-engine/internal/store"
)

func main() {
	var (
		setPassword     = flag.String("set-password", "", "store an IMAP password in the keychain as user@host, read from stdin")
		once            = flag.Bool("once", false, "run a single scan and exit regardless of app.interval_seconds")
		writeNormalized = flag.Bool("write-normalized", false, "normalize the config file in place and exit")
	)
	flag.Parse()

	// Data dir: env wins so packaged installs can point elsewhere.
	dataDir := os.Getenv("MAILHARVEST_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}

	if *setPassword != "" {
		if err := storePassword(*setPassword); err != nil {
			log.Fatal(err)
		}
		return
	}

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	cfg, err := config.Load(userCfgPath)
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	if err := config.OverlayAccounts(&cfg, filepath.Join(dataDir, "accounts.yml")); err != nil {
		log.Fatalf("accounts overlay failed: %v", err)
	}

	cfg, validation := config.NormalizeAndValidate(cfg)
	for _, w := range validation.Warnings {
		log.Printf("[config] warning: %s", w)
	}
	if !validation.OK() {
		for _, e := range validation.Errors {
			log.Printf("[config] error: %s", e)
		}
		log.Fatalf("config invalid (%s)", userCfgPath)
	}

	if *writeNormalized {
		if err := config.SaveAtomic(userCfgPath, cfg); err != nil {
			log.Fatal(err)
		}
		log.Printf("normalized config written to %s", userCfgPath)
		return
	}

	lock, err := run.AcquireLock(dataDir)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lock.Unlock() }()

	db, err := store.Open(filepath.Join(dataDir, "mailharvest.db"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := store.Migrate(db.Pool); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var apiClient *sink.Client
	if cfg.API.BaseURL != "" {
		apiClient = sink.New(cfg.API.BaseURL, os.Getenv(cfg.API.TokenEnv), cfg.API.RequestsPerSec)
	}

	if apiClient != nil && cfg.API.SyncKeywords {
		if err := syncKeywords(ctx, db, apiClient); err != nil {
			log.Printf("[main] keyword sync failed, using local mirror: %v", err)
		}
	}

	repo := rules.NewRepository(db)
	if err := repo.Load(ctx); err != nil {
		log.Fatalf("load keyword rules: %v", err)
	}
	if n, err := db.CountKeywords(ctx); err == nil {
		log.Printf("[main] %d active keywords loaded", n)
	}

	var cls filter.Classifier
	if cfg.Filters.UseClassifier {
		cls = classifier.NewOpenAI(os.Getenv(cfg.Classifier.APIKeyEnv), cfg.Classifier.Model)
	}
	emailFilter := filter.New(repo, cls, cfg.Filters.ScoreThreshold)
	emailFilter.AntiKeywordVeto = cfg.Filters.AntiKeywordVeto

	var tagger extract.EntityTagger
	if cfg.Extraction.NERServiceURL != "" {
		tagger = ner.New(cfg.Extraction.NERServiceURL)
	}
	extractor := extract.NewContactExtractor(repo, tagger)
	extractor.Resolver().MinScore = cfg.Extraction.MinCompanyScore
	extractor.Resolver().VendorTolerance = cfg.Extraction.VendorOverrideTolerance

	var emailer *report.Emailer
	if cfg.Report.SMTPAddr != "" {
		emailer = &report.Emailer{
			Addr:     cfg.Report.SMTPAddr,
			Username: cfg.Report.Username,
			Password: os.Getenv("MAILHARVEST_SMTP_PASSWORD"),
			From:     cfg.Report.From,
			To:       cfg.Report.To,
		}
	}

	svc := &run.Service{
		Cfg:       cfg,
		DB:        db,
		Repo:      repo,
		Filter:    emailFilter,
		Extractor: extractor,
		Sink:      apiClient,
		Emailer:   emailer,
	}

	scan := func(ctx context.Context) error {
		summary, err := svc.RunOnce(ctx)
		if err != nil {
			return err
		}
		log.Printf("[main] run done: fetched=%d passed=%d extracted=%d inserted=%d failed_accounts=%d",
			summary.Fetched, summary.Passed, summary.Extracted, summary.Inserted, summary.Failed)
		return nil
	}

	if *once || cfg.App.IntervalSeconds <= 0 {
		if err := scan(ctx); err != nil {
			log.Fatal(err)
		}
		return
	}

	interval := time.Duration(cfg.App.IntervalSeconds) * time.Second
	log.Printf("[main] scanning every %s", interval)
	scheduler.Every(ctx, interval, "scan", scan)
}

func syncKeywords(ctx context.Context, db *store.DB, api *sink.Client) error {
	kws, err := api.FetchKeywords(ctx)
	if err != nil {
		return err
	}
	if len(kws) == 0 {
		return fmt.Errorf("api returned no keywords")
	}
	if err := db.ReplaceKeywords(ctx, kws); err != nil {
		return err
	}
	log.Printf("[main] synced %d keywords from api", len(kws))
	return nil
}

func storePassword(userAtHost string) error {
	username, host, ok := strings.Cut(userAtHost, "@")
	if !ok || username == "" || host == "" {
		return fmt.Errorf("expected user@host, got %q", userAtHost)
	}
	// Domain part of the username doubles as the host separator, so read
	// the last @ as the split point.
	if i := strings.LastIndex(userAtHost, "@"); i > 0 {
		username, host = userAtHost[:i], userAtHost[i+1:]
	}

	fmt.Fprintf(os.Stderr, "password for %s@%s: ", username, host)
	sc := bufio.NewScanner(os.Stdin)
	if !sc.Scan() {
		return fmt.Errorf("no password read from stdin")
	}
	password := strings.TrimSpace(sc.Text())

	account := secrets.IMAPKeyringAccount(username, host)
	if err := secrets.SetIMAPPassword(account, password); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "stored keychain entry %s\n", account)
	return nil
}
