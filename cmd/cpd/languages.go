package cpd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cpdkit/cpd/internal/engine"
)

func init() {
	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List accepted language ids",
		Run: func(cmd *cobra.Command, _ []string) {
			for _, id := range engine.Languages() {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
		},
	}
	rootCmd.AddCommand(cmd)
}
