package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"offer-ranker/internal/scoring"
)

//nolint:gochecknoglobals // Cobra boilerplate
var weightsCmd = &cobra.Command{
	Use:   "weights",
	Short: "Print the weight each active dimension receives",
	RunE:  runWeights,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(weightsCmd)
}

func runWeights(cmd *cobra.Command, args []string) (err error) {
	var snap Snapshot
	snap, err = LoadSnapshot(snapshotFile)
	if err != nil {
		return err
	}

	active := scoring.ActiveDimensions(snap.Dimensions)
	weights := scoring.AssignWeights(active)

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DIMENSION\tNAME\tWEIGHT")
	for _, d := range active {
		w, ok := weights[d.ID]
		if !ok {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%.4f\n", d.ID, d.Name, w)
	}
	return tw.Flush()
}
