package cli

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/renwickholm/starkverify/internal/classhash"
	"github.com/renwickholm/starkverify/internal/config"
	"github.com/renwickholm/starkverify/internal/history"
	"github.com/renwickholm/starkverify/internal/license"
	"github.com/renwickholm/starkverify/internal/manifest"
	"github.com/renwickholm/starkverify/internal/validation"
	"github.com/renwickholm/starkverify/pkg/client"
)

func createVerifyCmd() *cobra.Command {
	var path string
	var hash string
	var contractName string
	var licenseID string
	var output string
	var factsFile string
	var noWait bool

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Reduce a project and submit it for class verification",
		Long: `Reduce the project to the sources its declared contracts need, check
the reduction builds, and submit it for verification against a declared
class hash.

EXAMPLES:
  # Verify against a declared class
  starkverify verify --class-hash 0x044dc2b3239382230d8b1e943df23b96f52eebcac93efe6e8bde92f9a2f1da18

  # Pick one of several declared contracts
  starkverify verify --class-hash 0x044d... --contract Counter

  # Submit without waiting for the result
  starkverify verify --class-hash 0x044d... --no-wait
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd.Context(), path, hash, contractName, licenseID, output, factsFile, noWait)
		},
	}

	cmd.Flags().StringVar(&path, "path", ".", "project directory containing Scarb.toml")
	cmd.Flags().StringVar(&hash, "class-hash", "", "declared class hash to verify against (required)")
	cmd.Flags().StringVar(&contractName, "contract", "", "contract to verify (defaults to the only declared one)")
	cmd.Flags().StringVar(&licenseID, "license", "", "SPDX license identifier for the submission")
	cmd.Flags().StringVar(&output, "output", "", "directory for the reduced project (default: temp dir)")
	cmd.Flags().StringVar(&factsFile, "facts", "", "pre-generated resolver facts file")
	cmd.Flags().BoolVar(&noWait, "no-wait", false, "submit and exit without polling for the result")
	_ = cmd.MarkFlagRequired("class-hash")

	return cmd
}

func runVerify(ctx context.Context, path, rawHash, contractName, licenseID, output, factsFile string, noWait bool) error {
	hash, err := classhash.Parse(rawHash)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	api, err := newAPIClient(cfg)
	if err != nil {
		return err
	}

	verified, err := api.ClassVerified(ctx, hash)
	if err != nil {
		return err
	}
	if verified {
		fmt.Printf("Class %s is already verified\n", hash)
		return nil
	}

	if output == "" {
		tmp, err := os.MkdirTemp("", "starkverify-*")
		if err != nil {
			return err
		}
		defer os.RemoveAll(tmp)
		output = filepath.Join(tmp, "reduced")
	}

	red, err := runReduction(ctx, logger, cfg, path, output, factsFile)
	if err != nil {
		return err
	}

	target, err := pickTarget(red.Targets, contractName)
	if err != nil {
		return err
	}

	if err := validation.ValidatePackageName(red.Main.Name); err != nil {
		return err
	}
	if err := validation.ValidateVersion(red.Metadata.CairoVersion()); err != nil {
		return fmt.Errorf("cairo version from scarb metadata: %w", err)
	}
	if err := validation.ValidateVersion(red.Metadata.ScarbVersion()); err != nil {
		return fmt.Errorf("scarb version from scarb metadata: %w", err)
	}

	lic, err := license.Resolve(licenseID, red.Main)
	if err != nil {
		return err
	}
	if lic.IsNone() {
		logger.Warn("no license provided, submission defaults to All Rights Reserved")
	}

	files, err := collectFiles(red.Output)
	if err != nil {
		return err
	}

	sub := &client.Submission{
		CompilerVersion: red.Metadata.CairoVersion(),
		ScarbVersion:    red.Metadata.ScarbVersion(),
		PackageName:     red.Main.Name,
		ContractName:    target.Name,
		ContractFile:    red.Main.Name + "/" + target.Path,
		ProjectDirPath:  red.Main.Name,
		License:         lic.String(),
		Files:           files,
	}

	jobID, err := api.VerifyClass(ctx, hash, sub)
	if err != nil {
		return err
	}
	fmt.Printf("Submitted verification job %s\n", jobID)

	store := openHistory(cfg, logger)
	if store != nil {
		defer store.Close()
		_, err := store.Add(ctx, &history.Record{
			JobID:        jobID,
			ClassHash:    hash.Normalized(),
			ContractName: target.Name,
			Network:      cfg.Network.Name,
			License:      lic.String(),
			Status:       client.StatusSubmitted.String(),
		})
		if err != nil {
			logger.Warn("recording history failed", "error", err)
		}
	}

	if noWait {
		fmt.Printf("Check progress with: starkverify status %s\n", jobID)
		return nil
	}

	waitCtx, cancel := context.WithTimeout(ctx, cfg.Client.PollTimeout())
	defer cancel()

	spin := startSpinner("Waiting for verification")
	job, err := api.WaitForCompletion(waitCtx, jobID)
	spin.Stop()

	if store != nil && job != nil {
		if uerr := store.UpdateStatus(ctx, jobID, job.Status.String()); uerr != nil {
			logger.Warn("updating history failed", "error", uerr)
		}
	}
	if err != nil {
		return err
	}

	fmt.Printf("Verification succeeded for class %s (contract %s)\n", hash, target.Name)
	return nil
}

// pickTarget selects the contract to verify from the declared targets.
func pickTarget(targets []manifest.Target, name string) (manifest.Target, error) {
	if name == "" {
		if len(targets) == 1 {
			return targets[0], nil
		}
		names := make([]string, len(targets))
		for i, t := range targets {
			names[i] = t.Name
		}
		return manifest.Target{}, fmt.Errorf("project declares %d contracts %v, pick one with --contract", len(targets), names)
	}
	for _, t := range targets {
		if t.Name == name {
			return t, nil
		}
	}
	return manifest.Target{}, fmt.Errorf("contract %q is not declared in [tool.voyager]", name)
}

// collectFiles reads every file of the reduced project, keyed by its
// path relative to the output root.
func collectFiles(root string) ([]client.File, error) {
	var files []client.File
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files = append(files, client.File{Name: filepath.ToSlash(rel), Content: content})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collecting reduced files: %w", err)
	}
	return files, nil
}

// openHistory opens the history store, or returns nil when history is
// disabled or cannot be opened. A broken history database never blocks
// a verification.
func openHistory(cfg *config.Config, logger *slog.Logger) *history.Store {
	if cfg.History.Disabled {
		return nil
	}
	store, err := history.Open(cfg.History.Path, logger)
	if err != nil {
		logger.Warn("history unavailable", "path", cfg.History.Path, "error", err)
		return nil
	}
	return store
}
