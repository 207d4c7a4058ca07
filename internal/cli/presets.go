package cli

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"offer-ranker/internal/dimensions"
)

//nolint:gochecknoglobals // Cobra boilerplate
var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "Print the built-in dimension catalog as YAML",
	Long: `Prints the preset dimensions. The output is a valid snapshot file
without offers, so it can be edited and passed back with --file.`,
	RunE: runPresets,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(presetsCmd)
}

func runPresets(cmd *cobra.Command, args []string) (err error) {
	snap := Snapshot{}
	snap.Dimensions, err = dimensions.Presets()
	if err != nil {
		err = errors.Wrap(err, "failed to load presets")
		return err
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	err = enc.Encode(snap)
	if err != nil {
		err = errors.Wrap(err, "failed to encode presets")
		return err
	}
	err = enc.Close()
	return err
}
