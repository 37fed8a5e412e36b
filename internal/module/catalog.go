package module

import (
	"errors"
	"fmt"

	"github.com/renwickholm/starkverify/internal/resolver"
)

// Errors surfaced while adapting resolver facts into a catalog.
var (
	// ErrUnsupportedVirtualModule means a module has no on-disk backing
	// file. Such modules cannot be copied into a reduced project.
	ErrUnsupportedVirtualModule = errors.New("module has no on-disk source file")
)

// ImportResolutionError reports a `use` path the external resolver could
// not resolve. It carries the offending path text verbatim so the user can
// locate it in the original project.
type ImportResolutionError struct {
	Module Path
	Text   string
}

func (e *ImportResolutionError) Error() string {
	return fmt.Sprintf("import not resolved in %s: %s", e.Module, e.Text)
}

// implicitCrates are provided by the compiler itself; imports resolving
// into them never pull files into the closure.
var implicitCrates = map[string]bool{
	"core": true,
}

// Catalog is the adapter view over all modules of a workspace with their
// resolved imports. It is built fresh per run from resolver facts and is
// read-only afterwards.
type Catalog struct {
	modules []Module
	byPath  map[Path]int
}

// BuildCatalog adapts resolver facts into a catalog. Any virtual module or
// unresolved import aborts the build; there is no partial mode, since a
// closure over incomplete facts would produce an uncompilable reduction.
func BuildCatalog(facts *resolver.Facts) (*Catalog, error) {
	c := &Catalog{byPath: make(map[Path]int)}

	for _, mf := range facts.Modules {
		path := Path(mf.Path)
		if !path.IsValid() {
			return nil, fmt.Errorf("invalid module path %q", mf.Path)
		}
		if mf.File == "" {
			return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedVirtualModule)
		}

		mod := Module{
			Path:         path,
			Dir:          mf.Dir,
			FilePath:     mf.File,
			RelativePath: mf.RelativePath,
		}

		for _, imp := range mf.Imports {
			if imp.Resolved == "" {
				return nil, &ImportResolutionError{Module: path, Text: imp.Path}
			}
			resolved := Path(imp.Resolved)
			if implicitCrates[resolved.Crate()] {
				continue
			}

			kind, err := importKind(imp.Kind)
			if err != nil {
				return nil, fmt.Errorf("module %s import %s: %w", path, imp.Path, err)
			}
			mod.Imports = append(mod.Imports, Import{
				Name:         imp.Name,
				DeclaredPath: Path(imp.Path),
				ResolvedPath: resolved,
				Kind:         kind,
			})
		}

		if _, dup := c.byPath[path]; dup {
			return nil, fmt.Errorf("duplicate module path %s", path)
		}
		c.byPath[path] = len(c.modules)
		c.modules = append(c.modules, mod)
	}

	return c, nil
}

func importKind(kind string) (ImportKind, error) {
	switch kind {
	case resolver.KindModule:
		return ModuleRef, nil
	case resolver.KindItem:
		return ItemRef, nil
	default:
		return 0, fmt.Errorf("unknown import kind %q", kind)
	}
}

// Modules returns all catalog modules in insertion order.
func (c *Catalog) Modules() []Module {
	return c.modules
}

// Len is the number of modules in the catalog.
func (c *Catalog) Len() int {
	return len(c.modules)
}

// Get looks a module up by canonical path.
func (c *Catalog) Get(path Path) (Module, bool) {
	i, ok := c.byPath[path]
	if !ok {
		return Module{}, false
	}
	return c.modules[i], true
}

// FindByRelativePath looks a module up by its crate-relative file path.
// Contract targets are declared this way in the manifest tool section.
func (c *Catalog) FindByRelativePath(rel string) (Module, bool) {
	for _, m := range c.modules {
		if m.RelativePath == rel {
			return m, true
		}
	}
	return Module{}, false
}
