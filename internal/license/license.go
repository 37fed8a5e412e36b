// Package license resolves the SPDX license identifier attached to a
// verification submission.
package license

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/renwickholm/starkverify/internal/manifest"
)

// Source records where a license identifier came from.
type Source int

const (
	// SourceNone means no license was found anywhere.
	SourceNone Source = iota
	// SourceFlag means the identifier was supplied on the command line.
	SourceFlag
	// SourceManifest means the identifier came from Scarb.toml.
	SourceManifest
	// SourceFile means the identifier was detected from a license file.
	SourceFile
)

func (s Source) String() string {
	switch s {
	case SourceFlag:
		return "flag"
	case SourceManifest:
		return "manifest"
	case SourceFile:
		return "file"
	default:
		return "none"
	}
}

// Info is a resolved license.
type Info struct {
	ID     string
	Source Source
}

// String returns the SPDX identifier, or "NONE" when unlicensed.
func (i Info) String() string {
	if i.Source == SourceNone {
		return "NONE"
	}
	return i.ID
}

// IsNone reports whether no license was resolved.
func (i Info) IsNone() bool {
	return i.Source == SourceNone
}

// Common SPDX identifiers accepted on the command line. The manifest
// field is passed through as-is since Scarb validates it itself.
var knownIDs = map[string]string{
	"mit":          "MIT",
	"apache-2.0":   "Apache-2.0",
	"gpl-2.0-only": "GPL-2.0-only",
	"gpl-3.0-only": "GPL-3.0-only",
	"lgpl-3.0":     "LGPL-3.0-only",
	"bsd-2-clause": "BSD-2-Clause",
	"bsd-3-clause": "BSD-3-Clause",
	"mpl-2.0":      "MPL-2.0",
	"isc":          "ISC",
	"unlicense":    "Unlicense",
	"agpl-3.0":     "AGPL-3.0-only",
	"cc0-1.0":      "CC0-1.0",
}

// ParseID canonicalizes a user-supplied SPDX identifier.
func ParseID(s string) (string, error) {
	id, ok := knownIDs[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("unknown SPDX license identifier %q", s)
	}
	return id, nil
}

// Resolve picks the license for a submission. Priority: flag, then the
// manifest license field, then detection from the package license file.
func Resolve(flagID string, pkg *manifest.Package) (Info, error) {
	if flagID != "" {
		id, err := ParseID(flagID)
		if err != nil {
			return Info{}, err
		}
		return Info{ID: id, Source: SourceFlag}, nil
	}
	if pkg.License != "" {
		return Info{ID: pkg.License, Source: SourceManifest}, nil
	}
	if pkg.LicenseFile != "" {
		if id := detectFromFile(filepath.Join(pkg.Root, pkg.LicenseFile)); id != "" {
			return Info{ID: id, Source: SourceFile}, nil
		}
	}
	return Info{Source: SourceNone}, nil
}

// detectFromFile matches the opening of a license file against the few
// texts that identify themselves on the first lines.
func detectFromFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	head := strings.ToLower(string(data))
	if len(head) > 512 {
		head = head[:512]
	}
	switch {
	case strings.Contains(head, "mit license"):
		return "MIT"
	case strings.Contains(head, "apache license") && strings.Contains(head, "version 2.0"):
		return "Apache-2.0"
	case strings.Contains(head, "gnu general public license") && strings.Contains(head, "version 3"):
		return "GPL-3.0-only"
	case strings.Contains(head, "bsd 3-clause"):
		return "BSD-3-Clause"
	case strings.Contains(head, "mozilla public license") && strings.Contains(head, "2.0"):
		return "MPL-2.0"
	default:
		return ""
	}
}
