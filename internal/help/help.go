// Package help implements command introspection: children, siblings,
// and related-command enumeration over a command tree, pagination over
// the result, and two renderers — a plain-text one for non-interactive
// actors and a styled one built on charmbracelet/glamour and
// charmbracelet/lipgloss for consoles that can show it.
package help

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"lamp/internal/tree"
	"lamp/pkg/lamptypes"
)

// Children returns every command whose path has c's path as a strict
// prefix, in tree traversal order.
func Children(all []*tree.ExecutableCommand, c *tree.ExecutableCommand) []*tree.ExecutableCommand {
	var out []*tree.ExecutableCommand
	for _, other := range all {
		if c.Path.IsPrefixOf(other.Path) {
			out = append(out, other)
		}
	}
	return out
}

// Siblings returns every command sharing c's parent path but differing
// in the last segment.
func Siblings(all []*tree.ExecutableCommand, c *tree.ExecutableCommand) []*tree.ExecutableCommand {
	var out []*tree.ExecutableCommand
	for _, other := range all {
		if other == c {
			continue
		}
		if c.Path.SharesParentWith(other.Path) {
			out = append(out, other)
		}
	}
	return out
}

// Related returns the union of Children and Siblings, children first,
// in the order each was discovered.
func Related(all []*tree.ExecutableCommand, c *tree.ExecutableCommand) []*tree.ExecutableCommand {
	out := Children(all, c)
	out = append(out, Siblings(all, c)...)
	return out
}

// Page returns the k'th 1-indexed page of size s from items, an empty
// slice if the page is past the end. k and s must be positive.
func Page(items []*tree.ExecutableCommand, k, s int) []*tree.ExecutableCommand {
	if k < 1 || s < 1 {
		return nil
	}
	start := (k - 1) * s
	if start >= len(items) {
		return nil
	}
	end := start + s
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// Signature renders a command's path with its parameter placeholders
// annotated by declared type, e.g. "teleport <target:string>".
func Signature(c *tree.ExecutableCommand) string {
	var parts []string
	for _, seg := range c.Effective {
		if seg.IsLiteral {
			parts = append(parts, seg.Literal)
			continue
		}
		typ := "any"
		if seg.Binding.Descriptor.Type != nil {
			typ = seg.Binding.Descriptor.Type.String()
		}
		parts = append(parts, fmt.Sprintf("<%s:%s>", seg.Binding.Descriptor.Name, typ))
	}
	return strings.Join(parts, " ")
}

// RenderPlain formats commands as one signature per line, for
// non-interactive actors.
func RenderPlain(commands []*tree.ExecutableCommand) string {
	var b strings.Builder
	for _, c := range commands {
		b.WriteString(Signature(c))
		b.WriteByte('\n')
	}
	return b.String()
}

var signatureStyle = lipgloss.NewStyle().Bold(true)

// RenderStyled formats commands as a Markdown list, rendering the
// command signature in bold, and passes the result through glamour for
// terminal styling. A rendering failure falls back to RenderPlain.
func RenderStyled(commands []*tree.ExecutableCommand) string {
	var md strings.Builder
	for _, c := range commands {
		md.WriteString("- ")
		md.WriteString(signatureStyle.Render(Signature(c)))
		if desc, ok := c.Annotations.Get("description"); ok {
			if d, ok := desc.(lamptypes.DescriptionAnnotation); ok {
				md.WriteString(" — ")
				md.WriteString(d.Text)
			}
		}
		md.WriteByte('\n')
	}
	rendered, err := glamour.Render(md.String(), "dark")
	if err != nil {
		return RenderPlain(commands)
	}
	return rendered
}

// Entry is one command's machine-readable introspection record, the
// shape RenderYAML marshals.
type Entry struct {
	Path        string   `yaml:"path"`
	Signature   string   `yaml:"signature"`
	Description string   `yaml:"description,omitempty"`
	Aliases     []string `yaml:"aliases,omitempty"`
}

// RenderYAML marshals commands into a machine-readable dump, one entry
// per command in the same order as RenderPlain.
func RenderYAML(commands []*tree.ExecutableCommand) (string, error) {
	entries := make([]Entry, 0, len(commands))
	for _, c := range commands {
		entry := Entry{Path: c.Path.String(), Signature: Signature(c), Aliases: c.Aliases}
		if desc, ok := c.Annotations.Get("description"); ok {
			if d, ok := desc.(lamptypes.DescriptionAnnotation); ok {
				entry.Description = d.Text
			}
		}
		entries = append(entries, entry)
	}
	out, err := yaml.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("marshalling help entries: %w", err)
	}
	return string(out), nil
}
