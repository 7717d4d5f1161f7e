// Package memreport builds hierarchical memory usage reports for the
// stores and tries in this module: a tree of named sizes for a blob
// store or trie, rendered with github.com/dustin/go-humanize for
// human-readable byte counts in text (JSON keeps raw byte counts for
// machine consumers).
package memreport

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// Report is one node of a memory usage tree: a named component, its
// resident byte size, and any sub-components that make it up.
type Report struct {
	Name       string   `json:"name"`
	TotalBytes int      `json:"total_bytes"`
	Children   []Report `json:"children,omitempty"`
}

// New constructs a leaf report.
func New(name string, totalBytes int) Report {
	return Report{Name: name, TotalBytes: totalBytes}
}

// WithChildren attaches children and rolls their sizes into the parent's
// total if the parent was constructed with a zero size (the common case:
// the caller only knows the sum once every sub-component has reported).
func (r Report) WithChildren(children ...Report) Report {
	r.Children = children
	if r.TotalBytes == 0 {
		sum := 0
		for _, c := range children {
			sum += c.TotalBytes
		}
		r.TotalBytes = sum
	}
	return r
}

// Print writes the report as an indented tree to stdout.
func (r Report) Print(indent int) {
	fmt.Print(r.string(indent))
}

// String renders the report as an indented tree with humanized sizes.
func (r Report) String() string {
	return r.string(0)
}

func (r Report) string(indent int) string {
	var sb strings.Builder
	r.buildString(&sb, indent)
	return sb.String()
}

func (r Report) buildString(sb *strings.Builder, indent int) {
	prefix := strings.Repeat("  ", indent)
	fmt.Fprintf(sb, "%s- %s: %s (%d bytes)\n", prefix, r.Name, humanize.Bytes(uint64(r.TotalBytes)), r.TotalBytes)
	for _, child := range r.Children {
		child.buildString(sb, indent+1)
	}
}

// JSON returns a JSON representation of the report, for tooling that
// wants raw byte counts rather than the humanized text rendering.
func (r Report) JSON() string {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error": %q}`, err.Error())
	}
	return string(b)
}
