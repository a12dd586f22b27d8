package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gogpu/compositor"
)

func (a *app) nodesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nodes",
		Short: "List node kinds and their sockets",
		Args:  exactArgs(0),
		RunE: func(*cobra.Command, []string) error {
			return a.listNodes()
		},
	}
}

func (a *app) listNodes() error {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tINPUTS\tOUTPUTS\tDESCRIPTION")
	for _, t := range compositor.NodeTypes() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.Kind, sockets(t.Inputs), sockets(t.Outputs), t.Description)
	}
	return tw.Flush()
}

// sockets formats templates as "Name:type" pairs.
func sockets(ts []compositor.SocketTemplate) string {
	if len(ts) == 0 {
		return "-"
	}
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.Name + ":" + t.Type.String()
	}
	return strings.Join(parts, ",")
}
