package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func createReduceCmd() *cobra.Command {
	var path string
	var output string
	var factsFile string

	cmd := &cobra.Command{
		Use:   "reduce",
		Short: "Reduce a project without submitting it",
		Long: `Compute the dependency closure for the declared contracts and write
the reduced project to the output directory, including the build
self-check. Nothing is uploaded.

EXAMPLES:
  # Reduce the current project
  starkverify reduce --output ./reduced

  # Use a pre-generated resolver facts file
  starkverify reduce --output ./reduced --facts facts.json
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(path)
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			red, err := runReduction(cmd.Context(), logger, cfg, path, output, factsFile)
			if err != nil {
				return err
			}

			fmt.Printf("Reduced project written to %s\n", red.Output)
			fmt.Printf("  modules:     %d\n", len(red.Project.Required))
			fmt.Printf("  attachments: %d\n", len(red.Project.Attachments))
			for _, t := range red.Targets {
				fmt.Printf("  contract:    %s (%s)\n", t.Name, t.Path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", ".", "project directory containing Scarb.toml")
	cmd.Flags().StringVar(&output, "output", "./starkverify-out", "directory for the reduced project")
	cmd.Flags().StringVar(&factsFile, "facts", "", "pre-generated resolver facts file")

	return cmd
}
