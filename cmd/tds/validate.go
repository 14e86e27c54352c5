package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/tds/data"
	"github.com/aretw0/tds/internal/cli"
	"github.com/aretw0/tds/internal/validator"
	"github.com/aretw0/tds/pkg/adapters/loam"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the zone and persona catalogs for consistency",
	Long:  `Loads the configured catalogs and reports dropped entries, duplicates and zones that will be synthesized.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(cmd); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Catalogs are valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	zones, err := cli.NewCatalogSource(cfg.Zones, loam.KindZones, data.ZoneSource())
	if err != nil {
		return fmt.Errorf("zone catalog: %w", err)
	}
	personas, err := cli.NewCatalogSource(cfg.Personas, loam.KindPersonas, data.PersonaSource())
	if err != nil {
		return fmt.Errorf("persona catalog: %w", err)
	}

	report, err := validator.ValidateCatalogs(commandContext(cmd), zones, personas)
	if err != nil {
		return err
	}

	fmt.Printf("Zones provided: %d/16\n", report.ZonesProvided)
	if len(report.MissingZones) > 0 {
		codes := make([]string, len(report.MissingZones))
		for i, c := range report.MissingZones {
			codes[i] = string(c)
		}
		fmt.Printf("Synthesized: %s\n", strings.Join(codes, " "))
	}
	fmt.Printf("Personas: %d\n", report.Personas)
	return report.Err()
}
