package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pricescope/pricescope/internal/auth"
	"github.com/pricescope/pricescope/internal/notify"
	"github.com/pricescope/pricescope/internal/server"
	"github.com/pricescope/pricescope/internal/utils"
	"github.com/pricescope/pricescope/pkg/pipeline"
	"github.com/pricescope/pricescope/pkg/storage"
	"github.com/pricescope/pricescope/pkg/sweep"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the pricescope API server and the price-drop sweep",
	RunE: func(cmd *cobra.Command, args []string) error {
		listenAddr, _ := cmd.Flags().GetString("listen")
		dbPath, _ := rootCmd.PersistentFlags().GetString("dbpath")

		absPath, err := utils.GetAbsDBPath(dbPath)
		if err != nil {
			return err
		}
		db, err := storage.Open(absPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()

		provs := buildProviders()
		if len(provs) == 0 {
			return fmt.Errorf("no providers configured; set serpapi.apikey or searchapi.apikey in ~/.pricescope.yaml")
		}
		searcher := pipeline.New(db, provs...)

		// Price-drop sweep only makes sense with a mail account.
		smtpHost := viper.GetString("smtp.host")
		if smtpHost != "" {
			mailer := notify.New(
				smtpHost,
				viper.GetInt("smtp.port"),
				viper.GetString("smtp.username"),
				viper.GetString("smtp.password"),
				viper.GetString("smtp.from"),
			)
			interval := time.Duration(viper.GetInt("sweep.interval_minutes")) * time.Minute
			sw := sweep.New(db, mailer, interval)
			if err := sw.Start(context.Background()); err != nil {
				return err
			}
			defer sw.Stop()
		} else {
			utils.Log.Warn("smtp.host not configured; price-drop reminders are disabled")
		}

		srv := server.New(db, searcher, auth.New(db))
		return srv.Start(listenAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", ":8080", "HTTP listen address")
}
