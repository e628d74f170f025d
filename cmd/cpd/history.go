package cpd

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/cpdkit/cpd/internal/audit"
)

var flagHistoryLimit int

func init() {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded runs, newest first",
		Long:  "Show runs recorded with 'cpd check --history' so duplication can be followed over time.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, err := filepath.Abs(flagPath)
			if err != nil {
				return err
			}
			records, err := audit.NewLog(root).Load()
			if err != nil {
				return err
			}
			return printHistory(cmd.OutOrStdout(), records, flagHistoryLimit)
		},
	}
	cmd.Flags().StringVarP(&flagPath, "path", "p", ".", "repository root")
	cmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 20, "number of runs shown (0 = all)")
	rootCmd.AddCommand(cmd)
}

func printHistory(w io.Writer, records []audit.RunRecord, limit int) error {
	if len(records) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	table := tablewriter.NewWriter(w)
	table.Header("When", "Outcome", "Duplicates", "Dup. lines", "Files", "Duration")
	for _, r := range records {
		if err := table.Append([]string{
			r.Timestamp.Local().Format("2006-01-02 15:04"),
			r.Outcome,
			strconv.Itoa(r.Duplicates),
			strconv.Itoa(r.DuplicatedLines),
			strconv.Itoa(r.FilesScanned),
			r.Duration,
		}); err != nil {
			return err
		}
	}
	return table.Render()
}
