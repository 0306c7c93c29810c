package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pmercado/jobtrack/internal/config"
	"github.com/pmercado/jobtrack/internal/ledger"
	"github.com/pmercado/jobtrack/internal/rate"
	"github.com/pmercado/jobtrack/internal/runtime"
	"github.com/pmercado/jobtrack/internal/track"
)

type trackConfig struct {
	envFile string
	passes  string
	rps     int
	burst   int
	dryRun  bool
}

func main() {
	cfg := parseTrackFlags()
	if err := run(cfg); err != nil {
		runtime.DefaultLogger().Error("jobtrack failed", "error", err)
		os.Exit(1)
	}
}

func parseTrackFlags() trackConfig {
	envFile := flag.String("env-file", ".env", "env file with mailbox and store settings")
	passes := flag.String("passes", "submitted,viewed,closed", "comma separated passes to run")
	rps := flag.Int("rps", 4, "max mailbox fetches per second")
	burst := flag.Int("burst", 0, "fetch burst size; defaults to rps")
	dryRun := flag.Bool("dry-run", false, "log only; skip ledger mutations")
	flag.Parse()

	return trackConfig{
		envFile: *envFile,
		passes:  *passes,
		rps:     *rps,
		burst:   *burst,
		dryRun:  *dryRun,
	}
}

func run(cfg trackConfig) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	conf, err := config.Load(cfg.envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	since, err := conf.Since()
	if err != nil {
		return err
	}
	passes, err := selectPasses(cfg.passes)
	if err != nil {
		return err
	}

	mailClient, err := runtime.Dial(conf.Addr(), conf.IMAP.Username, conf.IMAP.Password)
	if err != nil {
		return fmt.Errorf("connect mailbox: %w", err)
	}
	defer mailClient.Close()

	store, closeStore, err := openStore(conf.Store)
	if err != nil {
		return fmt.Errorf("open ledger store: %w", err)
	}
	defer closeStore()

	log := runtime.DefaultLogger()
	svc := track.NewService(mailClient, store, log)
	svc.From = conf.FromEmail
	svc.Since = since
	svc.DryRun = cfg.dryRun
	if cfg.rps > 0 {
		bucket := rate.NewTokenBucketBurst(cfg.rps, cfg.burst)
		defer bucket.Stop()
		svc.Rate = bucket
	}

	var failed []error
	for _, pass := range passes {
		rep, runErr := svc.Run(ctx, pass)
		if runErr != nil {
			return fmt.Errorf("run %s pass: %w", pass.Name, runErr)
		}
		if repErr := rep.Err(); repErr != nil {
			failed = append(failed, repErr)
		}
	}
	return errors.Join(failed...)
}

// selectPasses keeps the canonical submitted -> viewed -> closed order no
// matter how the flag lists them; later passes depend on rows earlier ones
// create.
func selectPasses(input string) ([]track.Pass, error) {
	wanted := map[string]bool{}
	for _, name := range strings.Split(input, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		wanted[name] = true
	}
	var out []track.Pass
	for _, pass := range track.Passes {
		if wanted[pass.Name] {
			out = append(out, pass)
			delete(wanted, pass.Name)
		}
	}
	for name := range wanted {
		return nil, fmt.Errorf("unknown pass %q", name)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no passes selected")
	}
	return out, nil
}

func openStore(cfg config.StoreConfig) (ledger.Store, func() error, error) {
	switch cfg.Driver {
	case "xlsx":
		st, err := ledger.OpenXLSX(cfg.Path, cfg.Sheet)
		if err != nil {
			return nil, nil, err
		}
		return st, st.Close, nil
	case "sqlite":
		st, err := ledger.OpenSQLite(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return st, st.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}
