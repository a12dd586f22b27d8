package compositor

import "fmt"

// Convert validates tree, lowers every node into operations and resolves
// the resulting graph. Nodes are converted in dependency order, so each
// node sees its upstream connections already moved onto operations.
func Convert(tree *Tree, ctx *Context) (*ExecutionSystem, error) {
	order, err := tree.sorted()
	if err != nil {
		return nil, err
	}

	nodes := make(map[string]Node, len(tree.Nodes))
	for _, tn := range tree.Nodes {
		n, err := NewNode(tn)
		if err != nil {
			return nil, err
		}
		nodes[tn.Name] = n
	}
	for _, l := range tree.Links {
		from := nodes[l.FromNode].Base().OutputByName(l.FromSocket)
		to := nodes[l.ToNode].Base().InputByName(l.ToSocket)
		link(from, to)
	}

	sys := NewExecutionSystem(ctx)
	muted := 0
	for _, tn := range order {
		n := nodes[tn.Name]
		if tn.Muted {
			convertPassThrough(n.Base(), sys)
			muted++
			continue
		}
		if err := n.ConvertToOperations(sys, ctx); err != nil {
			return nil, fmt.Errorf("convert %s: %w", tn.Name, err)
		}
	}

	if err := sys.Resolve(); err != nil {
		return nil, err
	}
	Logger().Debug("compositor: graph converted",
		"job", ctx.JobID().String(),
		"nodes", len(tree.Nodes),
		"muted", muted,
		"operations", sys.Len(),
		"outputs", len(sys.Outputs()))
	return sys, nil
}
