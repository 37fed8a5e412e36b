package cli

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/renwickholm/starkverify/internal/config"
	"github.com/renwickholm/starkverify/internal/graph"
	"github.com/renwickholm/starkverify/internal/manifest"
	"github.com/renwickholm/starkverify/internal/module"
	"github.com/renwickholm/starkverify/internal/reduce"
	"github.com/renwickholm/starkverify/internal/resolver"
	"github.com/renwickholm/starkverify/internal/scarb"
)

// reduction bundles everything produced by one reduction run.
type reduction struct {
	Project  *reduce.Project
	Catalog  *module.Catalog
	Main     *manifest.Package
	Targets  []manifest.Target
	Metadata *scarb.Metadata
	Output   string
}

// runReduction executes the full pipeline against a project directory:
// scarb metadata, manifest loading, import resolution, catalog and graph
// construction, closure, and materialization with the build self-check.
func runReduction(ctx context.Context, logger *slog.Logger, cfg *config.Config, projectDir, outputDir, factsFile string) (*reduction, error) {
	projectDir, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, err
	}
	manifestPath := filepath.Join(projectDir, "Scarb.toml")

	scarbCLI := scarb.NewCLI(cfg.Tools.Scarb)
	md, err := scarbCLI.ReadMetadata(ctx, manifestPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("read workspace metadata",
		"scarb", md.ScarbVersion(), "cairo", md.CairoVersion(), "packages", len(md.Packages))

	packages, main, err := loadWorkspacePackages(md, projectDir)
	if err != nil {
		return nil, err
	}

	targets, err := main.VerifyTargets()
	if err != nil {
		return nil, err
	}

	facts, err := resolveFacts(ctx, cfg, manifestPath, factsFile)
	if err != nil {
		return nil, err
	}

	catalog, err := module.BuildCatalog(facts)
	if err != nil {
		return nil, err
	}
	logger.Debug("built module catalog", "modules", catalog.Len())

	contractPaths := make([]string, len(targets))
	for i, t := range targets {
		contractPaths[i] = t.Path
	}
	targetModules, err := reduce.TargetModules(catalog, contractPaths)
	if err != nil {
		return nil, err
	}

	g := graph.Build(catalog)
	proj := reduce.Reduce(g, targetModules)
	logger.Info("computed dependency closure",
		"targets", len(targetModules),
		"required", len(proj.Required),
		"attachments", len(proj.Attachments))

	mz := &reduce.Materializer{
		OutputRoot:  outputDir,
		MainPackage: main.Name,
		Builder:     scarbCLI,
		Logger:      logger,
	}
	if err := mz.Materialize(ctx, proj, catalog, packages); err != nil {
		return nil, err
	}

	return &reduction{
		Project:  proj,
		Catalog:  catalog,
		Main:     main,
		Targets:  targets,
		Metadata: md,
		Output:   outputDir,
	}, nil
}

// loadWorkspacePackages loads the manifests for every workspace-local
// package and identifies the main one rooted at the project directory.
func loadWorkspacePackages(md *scarb.Metadata, projectDir string) ([]*manifest.Package, *manifest.Package, error) {
	var packages []*manifest.Package
	var main *manifest.Package

	for _, pm := range md.Packages {
		// Registry and std packages live outside the workspace.
		if !strings.HasPrefix(filepath.Clean(pm.Root), projectDir) {
			continue
		}
		pkg, err := manifest.Load(pm.ManifestPath)
		if err != nil {
			return nil, nil, err
		}
		packages = append(packages, pkg)
		if filepath.Clean(pm.Root) == projectDir {
			main = pkg
		}
	}

	if main == nil {
		return nil, nil, fmt.Errorf("no package rooted at %s in scarb metadata", projectDir)
	}
	return packages, main, nil
}

// resolveFacts obtains resolver facts, from a pre-generated file when
// one is supplied.
func resolveFacts(ctx context.Context, cfg *config.Config, manifestPath, factsFile string) (*resolver.Facts, error) {
	if factsFile != "" {
		return resolver.Load(factsFile)
	}
	return resolver.NewExec(cfg.Tools.Resolver).ResolveModules(ctx, manifestPath)
}
