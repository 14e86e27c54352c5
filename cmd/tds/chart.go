package main

import (
	"errors"
	"fmt"

	"github.com/aretw0/tds/internal/presentation/graph"
	"github.com/spf13/cobra"
)

var chartCmd = &cobra.Command{
	Use:   "chart [link]",
	Short: "Print a Mermaid chart of the zone map",
	Long: `Prints a Mermaid quadrantChart with every zone at the center of its cell. A link
payload is plotted as the current result; --saved adds every result in the store.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, _, _, cleanup, err := openEngine(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		ctx := commandContext(cmd)
		overlay := &graph.GraphOverlay{}
		if len(args) == 1 {
			result, ok := engine.Hydrate(args[0], "")
			if !ok {
				return errors.New("link carries no zone or has a non-numeric S/R")
			}
			overlay.Current = &graph.Point{S: result.S, R: result.R}
		}
		if saved, _ := cmd.Flags().GetBool("saved"); saved {
			ids, err := engine.Results(ctx)
			if err != nil {
				return err
			}
			for _, id := range ids {
				snap, err := engine.Result(ctx, id)
				if err != nil {
					continue
				}
				overlay.Points = append(overlay.Points, graph.Point{
					Label: snap.At.Format("2006-01-02 15.04"),
					S:     snap.S,
					R:     snap.R,
				})
			}
		}

		fmt.Print(graph.GenerateMermaid(engine.Zones(), overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chartCmd)
	chartCmd.Flags().Bool("saved", false, "Plot every saved result")
}
