package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func createConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration commands",
	}

	cmd.AddCommand(createConfigShowCmd())
	cmd.AddCommand(createConfigInitCmd())

	return cmd
}

func createConfigShowCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(path)
			if err != nil {
				return err
			}
			out, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			fmt.Print(string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", ".", "project directory")

	return cmd
}

func createConfigInitCmd() *cobra.Command {
	var path string
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starkverify.toml template into the project",
		RunE: func(cmd *cobra.Command, args []string) error {
			dest := filepath.Join(path, "starkverify.toml")
			if _, err := os.Stat(dest); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", dest)
			}

			template := `[network]
name = "sepolia"

[tools]
scarb = "scarb"
resolver = "voyager-resolver"

[client]
timeout_seconds = 30
poll_interval_seconds = 3
poll_timeout_seconds = 300
`
			if err := os.WriteFile(dest, []byte(template), 0644); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", dest)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", ".", "project directory")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}
