package reduce

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/renwickholm/starkverify/internal/manifest"
	"github.com/renwickholm/starkverify/internal/module"
	"github.com/renwickholm/starkverify/internal/scarb"
)

// ErrBuildSelfCheck means the materialized reduction failed to compile
// standalone. Submitting it would waste a verification slot, so the run
// aborts before any upload.
var ErrBuildSelfCheck = errors.New("reduced project failed build self-check")

// Materializer writes a reduced project into an output directory and runs
// the build self-check against it.
type Materializer struct {
	// OutputRoot is deleted and recreated on every run so no stale file
	// of a previous closure leaks into the new one.
	OutputRoot string
	// MainPackage is the crate the self-check builds.
	MainPackage string
	Builder     scarb.Builder
	Logger      *slog.Logger
}

// Materialize writes required source files, attachment stubs, rewritten
// manifests, and declared license/readme files into the output tree, then
// builds the main package as a self-check. Output is byte-identical
// across runs for unchanged input.
func (mz *Materializer) Materialize(ctx context.Context, proj *Project, catalog *module.Catalog, packages []*manifest.Package) error {
	logger := mz.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}

	if err := os.RemoveAll(mz.OutputRoot); err != nil {
		return fmt.Errorf("cleaning output directory: %w", err)
	}
	if err := os.MkdirAll(mz.OutputRoot, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if err := mz.writeAttachmentFiles(proj); err != nil {
		return err
	}
	if err := mz.copyRequiredFiles(proj, catalog); err != nil {
		return err
	}
	if err := mz.writeManifests(proj, packages); err != nil {
		return err
	}

	buildDir := filepath.Join(mz.OutputRoot, mz.MainPackage)
	logger.Info("running build self-check", "dir", buildDir)
	if err := mz.Builder.Build(ctx, buildDir); err != nil {
		return errors.Join(ErrBuildSelfCheck, err)
	}

	logger.Info("reduced project materialized",
		"output", mz.OutputRoot,
		"modules", len(proj.Required),
		"attachments", len(proj.Attachments))
	return nil
}

// attachmentRelPath maps a stub module path to its file inside the crate:
// the crate root file at depth one, a nested source file otherwise.
func attachmentRelPath(p module.Path) string {
	segs := p.Segments()
	if len(segs) == 1 {
		return filepath.Join("src", "lib.cairo")
	}
	rel := filepath.Join(segs[1:]...)
	return filepath.Join("src", rel+".cairo")
}

func (mz *Materializer) writeAttachmentFiles(proj *Project) error {
	keys := make([]module.Path, 0, len(proj.Attachments))
	for p := range proj.Attachments {
		keys = append(keys, p)
	}
	module.SortPaths(keys)

	for _, key := range keys {
		att := proj.Attachments[key]
		dest := filepath.Join(mz.OutputRoot, key.Crate(), attachmentRelPath(key))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return fmt.Errorf("creating attachment directory: %w", err)
		}

		var b strings.Builder
		for _, child := range att.Children() {
			fmt.Fprintf(&b, "mod %s;\n", child)
		}
		for _, imp := range att.Imports() {
			fmt.Fprintf(&b, "use %s;\n", imp)
		}

		if err := os.WriteFile(dest, []byte(b.String()), 0o644); err != nil {
			return fmt.Errorf("writing attachment file %s: %w", dest, err)
		}
	}
	return nil
}

func (mz *Materializer) copyRequiredFiles(proj *Project, catalog *module.Catalog) error {
	for _, path := range proj.Required {
		m, ok := catalog.Get(path)
		if !ok {
			return fmt.Errorf("required module %s missing from catalog", path)
		}

		dest := filepath.Join(mz.OutputRoot, path.Crate(), filepath.FromSlash(m.RelativePath))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return fmt.Errorf("creating module directory: %w", err)
		}
		if err := copyFile(m.FilePath, dest); err != nil {
			return fmt.Errorf("copying module %s: %w", path, err)
		}
	}
	return nil
}

func (mz *Materializer) writeManifests(proj *Project, packages []*manifest.Package) error {
	requiredCrates := proj.RequiredCrates()

	byName := make(map[string]*manifest.Package, len(packages))
	for _, pkg := range packages {
		byName[pkg.Name] = pkg
	}

	crates := make([]string, 0, len(requiredCrates))
	for crate := range requiredCrates {
		crates = append(crates, crate)
	}
	for p := range proj.Attachments {
		if !requiredCrates[p.Crate()] {
			crates = append(crates, p.Crate())
			requiredCrates[p.Crate()] = true
		}
	}
	// Deterministic crate order keeps failure messages stable.
	sort.Strings(crates)

	for _, crate := range crates {
		pkg, ok := byName[crate]
		if !ok {
			return fmt.Errorf("%w: no manifest for required crate %s", manifest.ErrRewrite, crate)
		}

		rewritten, err := manifest.Rewrite(pkg, requiredCrates)
		if err != nil {
			return err
		}

		crateDir := filepath.Join(mz.OutputRoot, crate)
		if err := os.MkdirAll(crateDir, 0o755); err != nil {
			return fmt.Errorf("%w: creating %s: %v", manifest.ErrRewrite, crateDir, err)
		}
		if err := os.WriteFile(filepath.Join(crateDir, "Scarb.toml"), rewritten, 0o644); err != nil {
			return fmt.Errorf("%w: writing manifest for %s: %v", manifest.ErrRewrite, crate, err)
		}

		for _, extra := range []string{pkg.LicenseFile, pkg.Readme} {
			if extra == "" {
				continue
			}
			src := filepath.Join(pkg.Root, extra)
			if _, err := os.Stat(src); err != nil {
				continue
			}
			if err := copyFile(src, filepath.Join(crateDir, extra)); err != nil {
				return fmt.Errorf("copying %s for crate %s: %w", extra, crate, err)
			}
		}
	}
	return nil
}

func copyFile(src, dest string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dest, data, 0o644)
}
