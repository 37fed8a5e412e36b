// Package validation provides input validation for starkverify.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/mod/semver"
)

// Package name validation
// Scarb package names: lowercase alphanumeric with underscores, 2-64 chars
var packageNameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]{0,62}[a-z0-9]$`)

// Contract path segments follow Cairo identifier rules.
var pathSegmentRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ValidatePackageName validates a Scarb package name
func ValidatePackageName(name string) error {
	if len(name) < 2 {
		return errors.New("package name too short (min 2 chars)")
	}
	if len(name) > 64 {
		return errors.New("package name too long (max 64 chars)")
	}
	if !packageNameRegex.MatchString(name) {
		return errors.New("invalid package name: must be lowercase alphanumeric with underscores, starting with a letter")
	}
	if strings.Contains(name, "__") {
		return errors.New("invalid characters in package name")
	}
	return nil
}

// ValidateContractPath validates a fully qualified contract module path
// such as "my_package::contracts::Counter".
func ValidateContractPath(path string) error {
	if path == "" {
		return errors.New("contract path cannot be empty")
	}
	for _, seg := range strings.Split(path, "::") {
		if !pathSegmentRegex.MatchString(seg) {
			return fmt.Errorf("invalid contract path %q: bad segment %q", path, seg)
		}
	}
	return nil
}

// ValidateNetwork checks the target network name.
func ValidateNetwork(network string) error {
	switch network {
	case "mainnet", "sepolia":
		return nil
	case "":
		return errors.New("network cannot be empty")
	default:
		return fmt.Errorf("unknown network %q: must be mainnet or sepolia", network)
	}
}

// ValidateVersion validates a semantic version string
func ValidateVersion(v string) error {
	// Normalize: strip leading 'v' if present, then add it back for semver library
	normalized := strings.TrimPrefix(v, "v")
	if normalized == "" {
		return errors.New("version cannot be empty")
	}

	// semver library expects version to start with 'v'
	versionWithV := "v" + normalized
	if !semver.IsValid(versionWithV) {
		return errors.New("invalid semver version: must be in format X.Y.Z or X.Y.Z-prerelease")
	}

	// Ensure we have major.minor.patch (not just major or major.minor)
	parts := strings.SplitN(normalized, "-", 2) // Split off prerelease/build
	mainPart := parts[0]
	dotCount := strings.Count(mainPart, ".")
	if dotCount < 2 {
		return errors.New("invalid semver version: must be in format X.Y.Z (major.minor.patch)")
	}

	return nil
}

// NormalizeVersion normalizes a version string (strips leading 'v')
func NormalizeVersion(v string) string {
	return strings.TrimPrefix(v, "v")
}

// IsPrerelease checks if a version is a prerelease
func IsPrerelease(v string) bool {
	normalized := "v" + NormalizeVersion(v)
	return semver.Prerelease(normalized) != ""
}

// CompareVersions compares two versions
// Returns -1 if v1 < v2, 0 if v1 == v2, 1 if v1 > v2
func CompareVersions(v1, v2 string) int {
	n1 := "v" + NormalizeVersion(v1)
	n2 := "v" + NormalizeVersion(v2)
	return semver.Compare(n1, n2)
}
