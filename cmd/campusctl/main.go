package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "campusctl",
		Short:        "Offline commute and space planning reports",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(commuteCmd())
	rootCmd.AddCommand(spaceCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func commuteCmd() *cobra.Command {
	var (
		mode      string
		threshold float64
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "commute [dataset-file]",
		Short: "Report commute statistics for a CSV or XLSX dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommute(cmd.OutOrStdout(), args[0], mode, threshold, asJSON)
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", "time", "threshold mode: time or distance")
	cmd.Flags().Float64VarP(&threshold, "threshold", "t", -1, "threshold in minutes (time) or miles (distance); defaults per mode")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func spaceCmd() *cobra.Command {
	var (
		floors      []int
		efficiency  int
		catalogPath string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "space",
		Short: "Summarize the default space program for a building",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSpace(cmd.OutOrStdout(), floors, efficiency, catalogPath, asJSON)
		},
	}

	defaults := defaultBuilding()
	cmd.Flags().IntSliceVar(&floors, "floors", defaults.FloorsGSF, "gross square feet per floor")
	cmd.Flags().IntVar(&efficiency, "efficiency", defaults.EfficiencyPercent, "building efficiency percent")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "YAML space catalog (built-in catalog when empty)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	return cmd
}
