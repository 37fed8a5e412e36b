// Package reduce computes the minimal module set needed to compile a set
// of target contracts and materializes it, together with synthesized
// attachment stubs and rewritten manifests, as a self-contained project
// ready for verification upload.
package reduce

import (
	"errors"
	"fmt"

	"github.com/renwickholm/starkverify/internal/graph"
	"github.com/renwickholm/starkverify/internal/module"
)

// ErrContractModuleNotFound means a contract path declared in the
// manifest tool section matches no module of the catalog.
var ErrContractModuleNotFound = errors.New("declared contract path matches no module")

// Project is the outcome of the closure computation: the modules whose
// real files must be copied, and the attachment stubs that keep the
// module tree connected. Attachment keys never overlap the required set.
type Project struct {
	Targets     []module.Module
	Required    []module.Path
	Attachments map[module.Path]*module.AttachmentModule
}

// TargetModules maps the contract file paths declared for verification to
// catalog modules. Every declared path must match exactly one module.
func TargetModules(catalog *module.Catalog, contractPaths []string) ([]module.Module, error) {
	targets := make([]module.Module, 0, len(contractPaths))
	for _, rel := range contractPaths {
		m, ok := catalog.FindByRelativePath(rel)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrContractModuleNotFound, rel)
		}
		targets = append(targets, m)
	}
	return targets, nil
}

// Reduce computes the required module set for the targets and the
// attachment stubs for everything structurally in between. Both sets are
// built in full and only then subtracted, so the result does not depend
// on traversal order: an attachment whose key is a required module is
// dropped, because the module's real content is materialized instead.
//
// When an item import points into a module that a stub could not satisfy
// (the item's implementation lives in the ancestor's real file), the
// closure already pulled that ancestor in wholesale. This can include
// more of the ancestor's content than the deep branch alone needs; the
// over-inclusion is deliberate and must not be optimized away.
func Reduce(g *graph.Graph, targets []module.Module) *Project {
	paths := make([]module.Path, len(targets))
	for i, t := range targets {
		paths[i] = t.Path
	}

	required := graph.Closure(g, paths)
	requiredSet := make(map[module.Path]bool, len(required))
	for _, p := range required {
		requiredSet[p] = true
	}

	attachments := SynthesizeAttachments(required, CollectRemaps(targets))
	for p := range attachments {
		if requiredSet[p] {
			delete(attachments, p)
		}
	}

	return &Project{
		Targets:     targets,
		Required:    required,
		Attachments: attachments,
	}
}

// RequiredCrates returns the distinct crate names owning the required
// modules.
func (p *Project) RequiredCrates() map[string]bool {
	crates := make(map[string]bool)
	for _, path := range p.Required {
		crates[path.Crate()] = true
	}
	return crates
}
