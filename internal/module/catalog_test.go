package module

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renwickholm/starkverify/internal/resolver"
)

func factsWith(modules ...resolver.ModuleFacts) *resolver.Facts {
	return &resolver.Facts{Modules: modules}
}

func TestBuildCatalog(t *testing.T) {
	facts := factsWith(
		resolver.ModuleFacts{
			Path:         "token",
			File:         "/proj/token/src/lib.cairo",
			RelativePath: "src/lib.cairo",
			Imports: []resolver.ImportFacts{
				{Name: "erc20", Path: "token::erc20", Resolved: "token::erc20", Kind: resolver.KindModule},
			},
		},
		resolver.ModuleFacts{
			Path:         "token::erc20",
			File:         "/proj/token/src/erc20.cairo",
			RelativePath: "src/erc20.cairo",
			Imports: []resolver.ImportFacts{
				{Name: "ContractAddress", Path: "starknet::ContractAddress", Resolved: "starknet::ContractAddress", Kind: resolver.KindItem},
			},
		},
	)

	catalog, err := BuildCatalog(facts)
	require.NoError(t, err)
	assert.Equal(t, 2, catalog.Len())

	m, ok := catalog.Get("token")
	require.True(t, ok)
	require.Len(t, m.Imports, 1)
	assert.Equal(t, ModuleRef, m.Imports[0].Kind)
	assert.Equal(t, Path("token::erc20"), m.Imports[0].Target())

	byRel, ok := catalog.FindByRelativePath("src/erc20.cairo")
	require.True(t, ok)
	assert.Equal(t, Path("token::erc20"), byRel.Path)

	_, ok = catalog.FindByRelativePath("src/missing.cairo")
	assert.False(t, ok)
}

func TestBuildCatalogDropsCoreImports(t *testing.T) {
	facts := factsWith(resolver.ModuleFacts{
		Path:         "token",
		File:         "/proj/token/src/lib.cairo",
		RelativePath: "src/lib.cairo",
		Imports: []resolver.ImportFacts{
			{Name: "ArrayTrait", Path: "core::array::ArrayTrait", Resolved: "core::array::ArrayTrait", Kind: resolver.KindItem},
			{Name: "erc20", Path: "token::erc20", Resolved: "token::erc20", Kind: resolver.KindModule},
		},
	})

	catalog, err := BuildCatalog(facts)
	require.NoError(t, err)

	m, _ := catalog.Get("token")
	require.Len(t, m.Imports, 1)
	assert.Equal(t, Path("token::erc20"), m.Imports[0].ResolvedPath)
}

func TestBuildCatalogRejectsVirtualModule(t *testing.T) {
	facts := factsWith(resolver.ModuleFacts{
		Path: "token::generated",
		File: "",
	})

	_, err := BuildCatalog(facts)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedVirtualModule)
	assert.Contains(t, err.Error(), "token::generated")
}

func TestBuildCatalogRejectsUnresolvedImport(t *testing.T) {
	facts := factsWith(resolver.ModuleFacts{
		Path:         "token",
		File:         "/proj/token/src/lib.cairo",
		RelativePath: "src/lib.cairo",
		Imports: []resolver.ImportFacts{
			{Name: "missing", Path: "token::missing::Thing", Resolved: "", Kind: resolver.KindItem},
		},
	})

	_, err := BuildCatalog(facts)
	require.Error(t, err)

	var resErr *ImportResolutionError
	require.True(t, errors.As(err, &resErr))
	assert.Equal(t, Path("token"), resErr.Module)
	assert.Equal(t, "token::missing::Thing", resErr.Text)
}

func TestBuildCatalogRejectsDuplicatePath(t *testing.T) {
	facts := factsWith(
		resolver.ModuleFacts{Path: "token", File: "/a/lib.cairo", RelativePath: "src/lib.cairo"},
		resolver.ModuleFacts{Path: "token", File: "/b/lib.cairo", RelativePath: "src/lib.cairo"},
	)

	_, err := BuildCatalog(facts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate module path")
}

func TestBuildCatalogRejectsUnknownImportKind(t *testing.T) {
	facts := factsWith(resolver.ModuleFacts{
		Path:         "token",
		File:         "/proj/token/src/lib.cairo",
		RelativePath: "src/lib.cairo",
		Imports: []resolver.ImportFacts{
			{Name: "x", Path: "token::x", Resolved: "token::x", Kind: "macro"},
		},
	})

	_, err := BuildCatalog(facts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown import kind")
}

func TestBuildCatalogRejectsInvalidPath(t *testing.T) {
	facts := factsWith(resolver.ModuleFacts{
		Path: "token::",
		File: "/proj/token/src/lib.cairo",
	})

	_, err := BuildCatalog(facts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid module path")
}
