package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/tds/internal/cli"
	"github.com/aretw0/tds/internal/presentation/tui"
	"github.com/aretw0/tds/pkg/domain"
	"github.com/spf13/cobra"
)

var zonesCmd = &cobra.Command{
	Use:   "zones",
	Short: "List the sixteen zones of the loaded catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, _, _, cleanup, err := openEngine(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		zones := engine.Zones()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(zones)
		}
		color := cli.IsTerminal(os.Stdout)
		for _, z := range zones {
			label := z.Code.Label()
			if color {
				label = tui.ZoneLabel(z.Code)
			}
			fmt.Printf("%-4s %-32s %s\n", z.Code, z.DisplayTitle(), label)
		}
		return nil
	},
}

var zoneCmd = &cobra.Command{
	Use:   "zone <code>",
	Short: "Show one zone record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, _, _, cleanup, err := openEngine(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		zone, err := engine.Zone(domain.ZoneCode(strings.ToUpper(strings.TrimSpace(args[0]))))
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(zone)
		}

		fmt.Printf("%s  %s\n", zone.DisplayBadge(), zone.DisplayTitle())
		fmt.Println(zone.Code.Label())
		for _, line := range []struct{ name, text string }{
			{"Summary", zone.Summary},
			{"Style", zone.StyleText},
			{"Voice", zone.VoiceText},
			{"Collaboration", zone.CollabText},
			{"Traits", strings.Join(zone.Traits, ", ")},
			{"Prompt", zone.Prompt},
		} {
			if line.text != "" {
				fmt.Printf("\n%s:\n  %s\n", line.name, line.text)
			}
		}
		return nil
	},
}

var personasCmd = &cobra.Command{
	Use:   "personas",
	Short: "List the selectable focus personas",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, _, _, cleanup, err := openEngine(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(engine.Personas())
		}
		for _, opt := range engine.PersonaOptions() {
			fmt.Printf("%-20s %s\n", opt.Value, opt.Label)
		}
		return nil
	},
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	for _, c := range []*cobra.Command{zonesCmd, zoneCmd, personasCmd} {
		c.Flags().Bool("json", false, "Print JSON")
		rootCmd.AddCommand(c)
	}
}
