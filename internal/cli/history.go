package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/renwickholm/starkverify/internal/history"
)

func createHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past verification submissions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(".")
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			if cfg.History.Disabled {
				return fmt.Errorf("history is disabled in configuration")
			}
			store, err := history.Open(cfg.History.Path, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("No verification history yet")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SUBMITTED\tJOB\tCONTRACT\tNETWORK\tSTATUS\tCLASS HASH")
			for _, r := range records {
				status := r.Status
				if status == "" {
					status = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					r.CreatedAt.Format("2006-01-02 15:04"),
					r.JobID, r.ContractName, r.Network, status, shortHash(r.ClassHash))
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "number of records to show")

	return cmd
}

// shortHash abbreviates a normalized class hash for table output.
func shortHash(h string) string {
	if len(h) <= 14 {
		return h
	}
	return h[:10] + "..." + h[len(h)-4:]
}
