package cli

import (
	"fmt"

	"gtaeconomy/internal/service"

	"github.com/spf13/cobra"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file>",
		Short: "Import a CSV or JSON data file into the store",
		Long: `Import a type-tagged CSV (Player, Item, MarketPrice, Transaction rows) or a JSON
export into the store. Rows are applied in file order. Failed rows are reported and skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cfg, newLogger(cfg), nil)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.seed(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: imported %d of %d rows\n", res.Status, res.ImportedRows, res.TotalRows)
			for _, e := range res.Errors {
				fmt.Fprintf(out, "  row %d: %s\n", e.Row, e.Message)
			}
			if res.Status == service.ImportStatusFailed {
				return fmt.Errorf("no rows imported from %s", args[0])
			}
			return nil
		},
	}
}
