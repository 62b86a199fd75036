package render

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/input-output-hk/bitte/pkg/types"
)

// Format is an output format for snapshots
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates an output format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("%w: unknown output format %q (table, json, yaml)", types.ErrConfigInvalid, s)
	}
}

// Options controls how a snapshot is written
type Options struct {
	Format Format

	// IncludeAllocations keeps each scheduler client's allocation list in
	// serialized output. Tables never show allocations.
	IncludeAllocations bool
}

// Snapshot writes snap to w in the requested format
func Snapshot(w io.Writer, snap *types.Snapshot, opts Options) error {
	switch opts.Format {
	case FormatJSON:
		return JSON(w, snap, opts)
	case FormatYAML:
		return YAML(w, snap, opts)
	case FormatTable, "":
		return Tables(w, snap)
	default:
		return fmt.Errorf("%w: unknown output format %q", types.ErrConfigInvalid, opts.Format)
	}
}

// JSON writes snap as indented JSON
func JSON(w io.Writer, snap *types.Snapshot, opts Options) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(prepare(snap, opts)); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}

// YAML writes snap as YAML
func YAML(w io.Writer, snap *types.Snapshot, opts Options) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(prepare(snap, opts)); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return enc.Close()
}

// prepare returns the snapshot to serialize, with allocations stripped
// unless requested. snap itself is never modified.
func prepare(snap *types.Snapshot, opts Options) *types.Snapshot {
	if opts.IncludeAllocations {
		return snap
	}

	out := *snap
	out.Nodes = make([]*types.Node, len(snap.Nodes))
	for i, n := range snap.Nodes {
		c := n.Clone()
		if c.Client != nil {
			c.Client.Allocations = nil
		}
		out.Nodes[i] = c
	}
	return &out
}

var (
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// Tables writes one table of core nodes and one table per scheduler node
// class of client nodes, each sorted by node name.
func Tables(w io.Writer, snap *types.Snapshot) error {
	nodes := slices.Clone(snap.Nodes)
	types.SortNodes(nodes)

	core := newTable(fmt.Sprintf("%s Core Instance", snap.Provider))
	groups := map[string]*table.Table{}

	for _, n := range nodes {
		if !n.IsClient() {
			core.Row(n.Name, n.PrivateIP.String(), n.PublicIP.String(), n.Zone)
			continue
		}

		group := ""
		if class := n.NodeClass(); class != "" {
			group = fmt.Sprintf(" (%s)", class)
		}
		t, ok := groups[group]
		if !ok {
			t = newTable(fmt.Sprintf("%s Instance ID%s", snap.Provider, group))
			groups[group] = t
		}
		t.Row(n.ID, n.PrivateIP.String(), n.PublicIP.String(), n.Zone)
	}

	if _, err := fmt.Fprintln(w, core.Render()); err != nil {
		return err
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		if _, err := fmt.Fprintf(w, "\n%s\n", groups[k].Render()); err != nil {
			return err
		}
	}
	return nil
}

func newTable(first string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(first, "Private IP", "Public IP", "Zone")
}
