package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/tds/internal/cli"
	"github.com/aretw0/tds/internal/presentation/tui"
	"github.com/aretw0/tds/pkg/prompt"
	"github.com/spf13/cobra"
)

var linkCmd = &cobra.Command{
	Use:     "link <payload>",
	Short:   "Rebuild a result from a shared link",
	Example: `  tds link '#zone=B3&S=1.25&R=2.50' --focus writing-coach`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, cfg, _, cleanup, err := openEngine(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		result, ok := engine.Hydrate(args[0], focusFlag(cmd, cfg))
		if !ok {
			return errors.New("link carries no zone or has a non-numeric S/R")
		}

		md := prompt.Markdown(*result)
		if cli.IsTerminal(os.Stdout) {
			if rendered, err := tui.NewRenderer()(md); err == nil {
				md = rendered
			}
		}
		fmt.Print(md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(linkCmd)
	linkCmd.Flags().String("focus", "", "Focus persona id or name")
}
