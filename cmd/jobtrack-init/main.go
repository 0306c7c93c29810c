// jobtrack-init creates an empty ledger so the first tracking run has
// somewhere to write.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pmercado/jobtrack/internal/config"
	"github.com/pmercado/jobtrack/internal/ledger"
	"github.com/pmercado/jobtrack/internal/runtime"
)

func main() {
	envFile := flag.String("env-file", ".env", "env file with store settings")
	force := flag.Bool("force", false, "overwrite an existing ledger")
	flag.Parse()

	log := runtime.DefaultLogger()
	if err := run(*envFile, *force); err != nil {
		log.Error("jobtrack-init failed", "error", err)
		os.Exit(1)
	}
}

func run(envFile string, force bool) error {
	conf, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	st := conf.Store

	if !force {
		if _, err := os.Stat(st.Path); err == nil {
			return fmt.Errorf("%s already exists (use -force to overwrite)", st.Path)
		}
	}

	switch st.Driver {
	case "xlsx":
		if err := ledger.InitXLSX(st.Path, st.Sheet); err != nil {
			return err
		}
	case "sqlite":
		if force {
			if err := os.Remove(st.Path); err != nil && !os.IsNotExist(err) {
				return err
			}
		}
		db, err := ledger.OpenSQLite(st.Path) // schema is created on open
		if err != nil {
			return err
		}
		if err := db.Close(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown store driver %q", st.Driver)
	}

	runtime.DefaultLogger().Info("ledger created", "driver", st.Driver, "path", st.Path)
	return nil
}
