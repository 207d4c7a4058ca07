package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"offer-ranker/internal/scoring"
	"offer-ranker/internal/workspaces"
)

//nolint:gochecknoglobals // Cobra boilerplate
var rankJSON bool

//nolint:gochecknoglobals // Cobra boilerplate
var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank the offers in a snapshot",
	Long: `Scores every offer against the active dimensions and prints them best first.

Examples:
  offerrank rank --file offers.yaml
  offerrank rank --file offers.json --json`,
	RunE: runRank,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(rankCmd)
	rankCmd.Flags().BoolVar(&rankJSON, "json", false, "print the ranking as JSON")
}

func runRank(cmd *cobra.Command, args []string) (err error) {
	var snap Snapshot
	snap, err = LoadSnapshot(snapshotFile)
	if err != nil {
		return err
	}

	ranking := workspaces.RankSnapshot(snap.Dimensions, snap.Offers)
	out := cmd.OutOrStdout()
	if rankJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		err = enc.Encode(ranking)
		if err != nil {
			err = errors.Wrap(err, "failed to encode ranking")
		}
		return err
	}

	err = writeRankingTable(out, snap.Offers, ranking.Results)
	if err != nil {
		err = errors.Wrap(err, "failed to write ranking")
	}
	return err
}

func writeRankingTable(w io.Writer, offers []scoring.Offer, results []scoring.Result) error {
	names := make(map[string]string, len(offers))
	for _, o := range offers {
		names[o.ID] = o.Value(scoring.IdentityDimensionID).AsChoice()
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tOFFER\tCOMPANY\tTOTAL\tBASE\tBONUS")
	for i, r := range results {
		company := names[r.OfferID]
		if company == "" {
			company = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f\t%.2f\t%.2f\n", i+1, r.OfferID, company, r.TotalScore, r.BaseScore, r.BonusScore)
	}
	return tw.Flush()
}
