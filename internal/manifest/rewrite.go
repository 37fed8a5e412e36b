package manifest

import (
	"bytes"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// builtinDependencies ship with the compiler; they are kept in rewritten
// manifests exactly as declared instead of being repointed at a local
// path.
var builtinDependencies = map[string]bool{
	"starknet": true,
}

// Rewrite produces the manifest bytes for a materialized package: every
// dependency that is not a required crate (and not a compiler builtin) is
// dropped, and every retained dependency is repointed at its sibling
// directory in the output tree. Breaking registry and VCS sources keeps
// the reduced project reproducible offline. Output bytes are
// deterministic for fixed input.
func Rewrite(p *Package, requiredCrates map[string]bool) ([]byte, error) {
	data, err := os.ReadFile(p.ManifestPath)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrRewrite, p.ManifestPath, err)
	}

	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrRewrite, p.ManifestPath, err)
	}

	if deps, ok := doc["dependencies"].(map[string]any); ok {
		for name := range deps {
			if builtinDependencies[name] {
				continue
			}
			if !requiredCrates[name] {
				delete(deps, name)
				continue
			}
			deps[name] = map[string]any{"path": "../" + name}
		}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return nil, fmt.Errorf("%w: encoding %s: %v", ErrRewrite, p.ManifestPath, err)
	}
	return buf.Bytes(), nil
}
