package cli

import (
	"io"

	"gtaeconomy/internal/flatfile"
	"gtaeconomy/internal/service"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every record to a CSV or JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != service.FormatCSV && format != service.FormatJSON {
				return errors.Errorf("unsupported format %q", format)
			}

			a, err := openApp(cfg, newLogger(cfg), nil)
			if err != nil {
				return err
			}
			defer a.Close()

			ds, err := a.economy.Dataset()
			if err != nil {
				return err
			}

			write := func(w io.Writer) error {
				if format == service.FormatJSON {
					return flatfile.WriteJSON(w, ds)
				}
				return flatfile.WriteCSV(w, ds.Records(), ';')
			}

			if output == "" || output == "-" {
				return write(cmd.OutOrStdout())
			}
			if err := flatfile.WriteFileAtomic(output, write); err != nil {
				return err
			}
			a.logger.Info("export written", "file", output, "format", format)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", service.FormatCSV, "Output format: csv, json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file, stdout when empty")

	return cmd
}

