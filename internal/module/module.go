package module

import "sort"

// ImportKind distinguishes imports that name a module from imports that
// name an item inside a module (function, type, constant, trait, impl or
// enum variant). The distinction drives which graph edge an import
// contributes: a module import targets the module itself, an item import
// targets the file that defines the item.
type ImportKind int

const (
	// ModuleRef is an import whose resolved path names a module.
	ModuleRef ImportKind = iota
	// ItemRef is an import whose resolved path names an item.
	ItemRef
)

func (k ImportKind) String() string {
	switch k {
	case ModuleRef:
		return "module"
	case ItemRef:
		return "item"
	default:
		return "unknown"
	}
}

// Import is one flattened `use` leaf. A module's own `mod x;` declarations
// appear as synthetic ModuleRef imports with identical declared and
// resolved paths.
type Import struct {
	Name         string
	DeclaredPath Path
	ResolvedPath Path
	Kind         ImportKind
}

// Target returns the module the import makes a compilation dependency:
// the resolved module itself for ModuleRef, and the parent module of the
// resolved item for ItemRef.
func (i Import) Target() Path {
	switch i.Kind {
	case ModuleRef:
		return i.ResolvedPath
	default:
		return i.ResolvedPath.Parent()
	}
}

// IsRemapped reports whether the path as written differs from the
// resolver-determined canonical path (aliasing, super-relative imports,
// grouped imports).
func (i Import) IsRemapped() bool {
	return i.DeclaredPath != i.ResolvedPath
}

// IsSuperImport reports whether the import was written relative to the
// parent scope.
func (i Import) IsSuperImport() bool {
	segs := i.DeclaredPath.Segments()
	return len(segs) > 0 && segs[0] == "super"
}

// DeclaredParent is the parent of the path as written.
func (i Import) DeclaredParent() Path {
	return i.DeclaredPath.Parent()
}

// ResolvedParent is the parent of the canonical path.
func (i Import) ResolvedParent() Path {
	return i.ResolvedPath.Parent()
}

// Module is one on-disk source file that backs a module of a crate.
type Module struct {
	// Path is the canonical module path.
	Path Path
	// Dir is the crate-relative directory the module's children live in.
	Dir string
	// FilePath is the absolute on-disk path of the backing file.
	FilePath string
	// RelativePath is the file path relative to the crate root,
	// e.g. "src/contract.cairo".
	RelativePath string
	// Imports holds every flattened import of the file.
	Imports []Import
}

// AttachmentModule is a synthesized stub module with no real body. It
// exists only to forward-declare children that attach required modules to
// the module tree, and to re-expose names that deeper required modules
// still reference through a remapped import.
type AttachmentModule struct {
	Path     Path
	children map[string]struct{}
	imports  map[Path]struct{}
}

// NewAttachmentModule creates an empty attachment stub for the path.
func NewAttachmentModule(path Path) *AttachmentModule {
	return &AttachmentModule{
		Path:     path,
		children: make(map[string]struct{}),
		imports:  make(map[Path]struct{}),
	}
}

// AddChild records a direct child segment to forward-declare. Duplicates
// are idempotent.
func (a *AttachmentModule) AddChild(name string) {
	a.children[name] = struct{}{}
}

// AddImport records a canonical path to re-expose with a `use` statement.
func (a *AttachmentModule) AddImport(p Path) {
	a.imports[p] = struct{}{}
}

// Children returns the forward-declared child names in stable order.
func (a *AttachmentModule) Children() []string {
	names := make([]string, 0, len(a.children))
	for name := range a.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Imports returns the re-exposed paths in stable order.
func (a *AttachmentModule) Imports() []Path {
	paths := make([]Path, 0, len(a.imports))
	for p := range a.imports {
		paths = append(paths, p)
	}
	SortPaths(paths)
	return paths
}
