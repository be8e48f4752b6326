// Package policy loads scan policies, the documents that carry exclusion
// lists, and keeps the compiled exclusion set current across reloads.
package policy

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bethropolis/exscan/internal/exclusion"
	"gopkg.in/yaml.v3"
)

// Format is a policy document encoding
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatXML  Format = "xml"
)

// Policy is a parsed scan policy.
type Policy struct {
	// Name is informational only.
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
	// Exclusions are raw exclusion strings in configuration order.
	Exclusions []string `yaml:"exclusions" json:"exclusions"`
	// ExcludeHidden skips dot-files and dot-directories.
	ExcludeHidden bool `yaml:"excludeHidden,omitempty" json:"excludeHidden,omitempty"`
	// IgnoreFile names per-directory gitignore-syntax files to honour.
	IgnoreFile string `yaml:"ignoreFile,omitempty" json:"ignoreFile,omitempty"`
}

// xmlPolicy is the on-access policy document layout.
type xmlPolicy struct {
	XMLName xml.Name `xml:"policy"`
	Name    string   `xml:"name,attr"`
	Scan    struct {
		ExcludeHidden bool     `xml:"excludeHidden"`
		IgnoreFile    string   `xml:"ignoreFile"`
		Paths         []string `xml:"exclusions>filePath"`
	} `xml:"onAccessScan"`
}

// FormatFromPath picks the format from the file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".xml":
		return FormatXML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
}

// Parse decodes a policy document. Whitespace-only entries are dropped;
// other entries are kept byte for byte, except XML element text, which is
// trimmed of the indentation around it.
func Parse(data []byte, format Format) (*Policy, error) {
	var p Policy

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("policy: parse yaml: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("policy: parse json: %w", err)
		}
	case FormatXML:
		var doc xmlPolicy
		if err := xml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("policy: parse xml: %w", err)
		}
		paths := make([]string, 0, len(doc.Scan.Paths))
		for _, path := range doc.Scan.Paths {
			paths = append(paths, strings.TrimSpace(path))
		}
		p = Policy{
			Name:          doc.Name,
			Exclusions:    paths,
			ExcludeHidden: doc.Scan.ExcludeHidden,
			IgnoreFile:    strings.TrimSpace(doc.Scan.IgnoreFile),
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	p.Exclusions = cleanEntries(p.Exclusions)
	return &p, nil
}

// Load reads and parses a policy file
func Load(path string) (*Policy, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("policy: read %s: %w", path, err)
	}

	p, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Merge returns a copy of p with inline exclusions appended after the
// policy's own. Duplicates keep their first position.
func (p *Policy) Merge(inline []string) *Policy {
	out := &Policy{}
	if p != nil {
		*out = *p
	}

	combined := make([]string, 0, len(out.Exclusions)+len(inline))
	combined = append(combined, out.Exclusions...)
	combined = append(combined, inline...)
	out.Exclusions = cleanEntries(combined)
	return out
}

// Compile builds the exclusion set for the policy
func (p *Policy) Compile(opts ...exclusion.Option) *exclusion.Set {
	if p == nil {
		return exclusion.NewSet(nil, opts...)
	}
	return exclusion.NewSet(p.Exclusions, opts...)
}

// cleanEntries drops whitespace-only entries and duplicates. Kept entries
// are not modified: surrounding spaces can be part of a file name.
func cleanEntries(entries []string) []string {
	seen := make(map[string]struct{}, len(entries))
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		if strings.TrimSpace(entry) == "" {
			continue
		}
		if _, dup := seen[entry]; dup {
			continue
		}
		seen[entry] = struct{}{}
		out = append(out, entry)
	}
	return out
}
