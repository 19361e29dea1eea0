package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/patagonia-pages/bookpage/internal/errors"
	"github.com/patagonia-pages/bookpage/internal/i18n"
)

var errBucketRequired = errors.New("E103").
	WithDetail("export.bucket: required for --upload").
	WithSuggestion("Pass --bucket or set BOOKPAGE_EXPORT_BUCKET")

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the translation catalogs",
	}
	cmd.AddCommand(catalogCheckCmd())
	return cmd
}

func catalogCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that every language has every message",
		Long: `Load the embedded locale files and verify that all languages declare
the same message IDs and that none is empty.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			problems, err := i18n.SourceParity()
			if err != nil {
				return err
			}
			if len(problems) > 0 {
				for _, p := range problems {
					fmt.Fprintf(out, "  %s\n", p)
				}
				return errors.New("E004").WithDetailf("%d problems in the locale files", len(problems))
			}

			table, err := i18n.Load()
			if err != nil {
				return err
			}
			langs := table.Languages()
			for _, other := range langs[1:] {
				if diff := i18n.Parity(table.Catalog(langs[0]), table.Catalog(other)); len(diff) > 0 {
					for _, id := range diff {
						fmt.Fprintf(out, "  %s/%s: %s\n", langs[0], other, id)
					}
					return errors.New("E004").WithDetailf("%s and %s differ in %d messages", langs[0], other, len(diff))
				}
			}

			success(out, "%d languages, %d messages each", len(langs), len(i18n.Keys(table.Catalog(langs[0]))))
			return nil
		},
	}
}
