package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pricescope/pricescope/internal/utils"
	"github.com/pricescope/pricescope/pkg/storage"
)

// historyCmd implements: pricescope history <product-id>
// Prints the retained price points for one product identity.
var historyCmd = &cobra.Command{
	Use:   "history <product-id>",
	Short: "Print the stored price history for a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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

		points, err := db.ListHistory(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(points) == 0 {
			return fmt.Errorf("no history for product %s", args[0])
		}
		for _, p := range points {
			fmt.Printf("%s  %s\n", p.RecordedAt.Format("2006-01-02 15:04:05"), p.Price)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
