package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/tds/internal/cli"
	"github.com/aretw0/tds/pkg/deeplink"
	"github.com/aretw0/tds/pkg/domain"
	"github.com/aretw0/tds/pkg/prompt"
	"github.com/spf13/cobra"
)

type scoreOutput struct {
	ID     string         `json:"id,omitempty"`
	Result domain.Payload `json:"result"`
	Link   string         `json:"link"`
	Label  string         `json:"label"`
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a complete answer set non-interactively",
	Example: `  tds score -a q1=5 -a q2=2 -a q3=4 -a q4=1 -a q5=5 -a q6=2 -a q7=4 -a q8=1
  tds score --format markdown -a q1=agree ...`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pairs, _ := cmd.Flags().GetStringArray("answer")
		answers, err := cli.ParseAnswerFlags(pairs)
		if err != nil {
			return err
		}

		engine, cfg, _, cleanup, err := openEngine(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		ctx := commandContext(cmd)
		result, err := engine.Evaluate(ctx, answers, focusFlag(cmd, cfg))
		if err != nil {
			var incomplete *domain.IncompleteAnswersError
			if errors.As(err, &incomplete) {
				return fmt.Errorf("%w (use -a id=value for each)", err)
			}
			return err
		}

		out := scoreOutput{
			Result: result.Payload(),
			Link:   deeplink.EncodeResult(*result),
			Label:  result.Zone.Code.Label(),
		}
		if save, _ := cmd.Flags().GetBool("save"); save {
			snap, err := engine.Save(ctx, result)
			if err != nil {
				return err
			}
			out.ID = snap.ID
		}

		format, _ := cmd.Flags().GetString("format")
		switch format {
		case "markdown", "md":
			fmt.Print(prompt.Markdown(*result))
			return nil
		case "prompt":
			fmt.Println(result.Prompt)
			return nil
		case "json":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}
		return fmt.Errorf("unknown format %q: want json, markdown or prompt", format)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)
	scoreCmd.Flags().StringArrayP("answer", "a", nil, "Answer as id=value (value 1-5 or a scale label); repeatable")
	scoreCmd.Flags().String("focus", "", "Focus persona id or name")
	scoreCmd.Flags().String("format", "json", "Output format: json, markdown or prompt")
	scoreCmd.Flags().Bool("save", false, "Save the result to the configured store")
}
