package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/brettbedarf/vtree/filesystem"
)

var (
	dirStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	itemStyle     = lipgloss.NewStyle()
	linkStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))
	danglingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
)

// nodeName styles name after the kind of n. Directories get a trailing
// separator.
func nodeName(n filesystem.Node, name, sep string) string {
	switch v := n.(type) {
	case *filesystem.Directory:
		return dirStyle.Render(name + sep)
	case *filesystem.SymbolicLink:
		if v.TargetType() == filesystem.NodeTypeNone {
			return danglingStyle.Render(name)
		}
		return linkStyle.Render(name)
	}
	return itemStyle.Render(name)
}

// linkSuffix renders the " -> target" part of a link line.
func linkSuffix(link *filesystem.SymbolicLink, fs *filesystem.Storage[string]) string {
	target, ok := link.Target()
	if !ok {
		return mutedStyle.Render(" -> (none)")
	}
	return mutedStyle.Render(" -> " + target.Format(fs.Config().Syntax()))
}

// writeTreeLine prints one walk context indented by its depth.
func writeTreeLine(w io.Writer, fs *filesystem.Storage[string], ctx *filesystem.NodeContext, baseName string) {
	sep := fs.Config().Separator
	name := baseName
	if ctx.Depth > 0 {
		name = ctx.TraversalPath.Name()
	} else {
		// the base is printed as given
		sep = ""
	}

	var b strings.Builder
	b.WriteString(strings.Repeat("  ", ctx.Depth))
	if ctx.ResolvedLink != nil {
		// a followed link shows its own name and where it leads
		b.WriteString(linkStyle.Render(name))
		b.WriteString(linkSuffix(ctx.ResolvedLink, fs))
	} else {
		b.WriteString(nodeName(ctx.Node, name, sep))
		if link, ok := ctx.Node.(*filesystem.SymbolicLink); ok {
			b.WriteString(linkSuffix(link, fs))
		}
	}
	fmt.Fprintln(w, b.String())
}

// writeStat prints the metadata of n, reached at path.
func writeStat(w io.Writer, fs *filesystem.Storage[string], path string, n filesystem.Node) {
	field := func(label, value string) {
		fmt.Fprintf(w, "%s%s\n", labelStyle.Render(label+":"), value)
	}
	field("Path", path)
	field("Type", n.Type().String())
	field("ID", n.ID().String())
	field("Created", n.CreatedAt().Format(time.RFC3339))
	field("Updated", n.UpdatedAt().Format(time.RFC3339))
	field("Owned", fmt.Sprint(n.IsOwned()))

	switch v := n.(type) {
	case *filesystem.Directory:
		field("Entries", fmt.Sprint(v.Len()))
	case *filesystem.Item[string]:
		field("Payload", fmt.Sprintf("%q", v.Payload()))
	case *filesystem.SymbolicLink:
		target := "(none)"
		if t, ok := v.Target(); ok {
			target = t.Format(fs.Config().Syntax())
		}
		field("Target", target)
		field("TargetType", v.TargetType().String())
	}
}
