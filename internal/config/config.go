// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is loaded from environment variables, optionally seeded from a .env
// file. Defaults target the Yahoo mailbox the job-board notifications land
// in.
type Config struct {
	IMAP  IMAPConfig  `envPrefix:"IMAP_"`
	Store StoreConfig `envPrefix:"STORE_"`

	// FromEmail selects whose notifications are mined.
	FromEmail string `env:"FROM_EMAIL" envDefault:"noreply@jobstreet.com"`
	// SinceDate bounds the mailbox search, "2006-01-02". Empty means no bound.
	SinceDate string `env:"SINCE_DATE"`
}

// IMAPConfig contains the mail server connection settings.
type IMAPConfig struct {
	Host     string `env:"HOST"     envDefault:"imap.mail.yahoo.com"`
	Port     int    `env:"PORT"     envDefault:"993"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
}

// StoreConfig selects and locates the ledger store.
type StoreConfig struct {
	Driver string `env:"DRIVER" envDefault:"xlsx"` // xlsx or sqlite
	Path   string `env:"PATH"   envDefault:"applications.xlsx"`
	Sheet  string `env:"SHEET"  envDefault:"Applications"` // xlsx only
}

// Load reads the env file when present, then parses the environment. A
// missing env file is fine; real environment variables win either way.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Store.Driver {
	case "xlsx", "sqlite":
	default:
		return fmt.Errorf("unknown store driver %q (want xlsx or sqlite)", c.Store.Driver)
	}
	if _, err := c.Since(); err != nil {
		return err
	}
	return nil
}

// Addr is the host:port the IMAP adapter dials.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.IMAP.Host, c.IMAP.Port)
}

// Since parses the configured search lower bound, zero when unset.
func (c Config) Since() (time.Time, error) {
	if c.SinceDate == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", c.SinceDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse SINCE_DATE: %w", err)
	}
	return t, nil
}
