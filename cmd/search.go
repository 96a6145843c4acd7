package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pricescope/pricescope/internal/utils"
	"github.com/pricescope/pricescope/pkg/pipeline"
	"github.com/pricescope/pricescope/pkg/storage"
)

// searchCmd implements: pricescope search <query>
// One-shot search from the terminal, printing the ranked list.
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search all providers and print the ranked results",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		dbPath, _ := rootCmd.PersistentFlags().GetString("dbpath")

		// The server may be writing to the same file.
		lock, err := utils.NewDBLock(dbPath)
		if err != nil {
			return err
		}
		if err := lock.Lock(); err != nil {
			return err
		}
		defer lock.Unlock()

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

		items, err := pipeline.New(db, provs...).Search(cmd.Context(), query)
		if err != nil {
			return err
		}

		for _, it := range items {
			trendMark := ""
			if it.Trend != "" {
				trendMark = fmt.Sprintf(" [%s]", it.Trend)
			}
			fmt.Printf("%-10s %-12s%s  %s\n", it.Price, it.Source, trendMark, it.Title)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
