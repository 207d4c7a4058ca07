package cli

import (
	"os"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var snapshotFile string

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "offerrank",
	Short: "Rank job offers by weighted dimension scores",
	Long: `offerrank scores job offers against an ordered list of dimensions.

Dimensions earlier in the list weigh more. A snapshot file (YAML or JSON)
holds "dimensions" and "offers"; without dimensions the built-in presets
are used.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.PersistentFlags().StringVarP(&snapshotFile, "file", "f", "", "snapshot file (.yaml, .yml or .json)")
}
