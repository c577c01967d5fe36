package commands

import (
	"context"
	"fmt"
	"os"

	"pesuassist-backend/lib/configutil"
	"pesuassist-backend/lib/restyutil"
	scraper "pesuassist-backend/lib/scrapers/pesu"
	"pesuassist-backend/lib/serviceutil"
	"pesuassist-backend/lib/sqliteutil"
	"pesuassist-backend/lib/syncstore/db"
	"pesuassist-backend/services/pesu"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pesu-cli",
	Short: "pesu-cli browses, syncs and downloads PESU Academy content.",
}

var dbPath *string
var debugHttp *bool

func init() {
	dbPath = rootCmd.PersistentFlags().String("db", "pesu.db", "The database snapshots are stored in.")
	debugHttp = rootCmd.PersistentFlags().Bool("debug-http", false, "Dump every portal http exchange to .dev/resty/pesu.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type Config struct {
	Username string `json:"username"`
	Password string `json:"password"`
	BaseUrl  string `json:"base_url"`
}

func newService() pesu.Service {
	if *debugHttp {
		scraper.SetRestyInstrumentOutput(restyutil.NewFilesystemOutput(".dev/resty/pesu"))
	}

	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	if cfg.BaseUrl == "" {
		cfg.BaseUrl = "https://www.pesuacademy.com"
	}

	database, err := sqliteutil.OpenDB(db.Schema, *dbPath)
	if err != nil {
		serviceutil.Fatal("failed to open db", err)
	}

	return pesu.NewService(pesu.ServiceOptions{
		Database: database,
		BaseUrl:  cfg.BaseUrl,
		Credentials: pesu.Credentials{
			Username: cfg.Username,
			Password: cfg.Password,
		},
	})
}
