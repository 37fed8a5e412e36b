package reduce

import (
	"github.com/renwickholm/starkverify/internal/module"
)

// CollectRemaps returns, among the imports of the given modules, those
// whose declared path differs from the resolved canonical path: aliases,
// super-relative imports, and names re-exported from a shallower module.
// These are the imports a reduced project must keep resolvable through a
// synthesized `use` statement.
func CollectRemaps(modules []module.Module) []module.Import {
	var remaps []module.Import
	for _, m := range modules {
		for _, imp := range m.Imports {
			if imp.IsRemapped() {
				remaps = append(remaps, imp)
			}
		}
	}
	return remaps
}

// SynthesizeAttachments derives the forward-declaration stubs needed to
// keep the module tree connected to every required module.
//
// The structural pass walks each required path's strict ancestor prefixes
// and records, at every ancestor, the next segment toward the required
// leaf as a child to forward-declare. For a required "t::submod::leaf"
// this yields t -> {submod} and t::submod -> {leaf}.
//
// The re-exposure pass records, at each remapped import's declared parent
// module, a `use` of the resolved canonical path, so a deep required
// module that references the short name literally still resolves it.
//
// The returned map may contain keys that are themselves required modules;
// the caller subtracts those, since their real content is materialized
// instead.
func SynthesizeAttachments(required []module.Path, remaps []module.Import) map[module.Path]*module.AttachmentModule {
	attachments := make(map[module.Path]*module.AttachmentModule)

	get := func(p module.Path) *module.AttachmentModule {
		a, ok := attachments[p]
		if !ok {
			a = module.NewAttachmentModule(p)
			attachments[p] = a
		}
		return a
	}

	for _, req := range required {
		segs := req.Segments()
		for i := 0; i < len(segs)-1; i++ {
			ancestor := module.NewPath(segs[:i+1]...)
			get(ancestor).AddChild(segs[i+1])
		}
	}

	for _, imp := range remaps {
		parent := imp.DeclaredParent()
		if parent == "" {
			continue
		}
		get(parent).AddImport(imp.ResolvedPath)
	}

	return attachments
}
