package workflow

import (
	"fmt"

	gographviz "github.com/awalterschulze/gographviz"
	"golang.org/x/text/unicode/norm"
)

// nodeShapes maps node kinds to Graphviz shapes for readable renderings.
var nodeShapes = map[NodeKind]string{
	KindTrigger:   "invhouse",
	KindCondition: "diamond",
	KindDelay:     "circle",
	KindAction:    "box",
}

// ToDOT renders a workflow graph as Graphviz DOT for visualization.
// Nodes and edges appear in authored order.
//
// Labels come from the authoring UI and may be typed on any platform, so
// they are NFC-normalized for stable output across sources.
func ToDOT(name string, g *Graph) (string, error) {
	dot := gographviz.NewEscape()
	if err := dot.SetName(name); err != nil {
		return "", fmt.Errorf("dot graph name: %w", err)
	}
	if err := dot.SetDir(true); err != nil {
		return "", fmt.Errorf("dot graph direction: %w", err)
	}

	for i := range g.Nodes {
		n := &g.Nodes[i]
		// gographviz rejects attribute names outside the Graphviz set,
		// so the node kind rides in the comment attribute; shape encodes
		// it visually.
		attrs := map[string]string{
			"label":   norm.NFC.String(nodeLabel(n)),
			"shape":   nodeShapes[n.Kind],
			"comment": string(n.Kind),
		}
		if err := dot.AddNode(name, n.ID, attrs); err != nil {
			return "", fmt.Errorf("dot node %q: %w", n.ID, err)
		}
	}

	for i := range g.Edges {
		e := &g.Edges[i]
		if err := dot.AddEdge(e.Source, e.Target, true, nil); err != nil {
			return "", fmt.Errorf("dot edge %q: %w", e.ID, err)
		}
	}

	return dot.String(), nil
}

// nodeLabel picks the display label for a node: the authored label when
// present, otherwise the node's type string.
func nodeLabel(n *Node) string {
	switch n.Kind {
	case KindTrigger:
		if n.Trigger != nil {
			if n.Trigger.Label != "" {
				return n.Trigger.Label
			}
			return string(n.Trigger.TriggerType)
		}
	case KindCondition:
		if n.Condition != nil {
			if n.Condition.Label != "" {
				return n.Condition.Label
			}
			return string(n.Condition.ConditionType)
		}
	case KindAction:
		if n.Action != nil {
			if n.Action.Label != "" {
				return n.Action.Label
			}
			return string(n.Action.ActionType)
		}
	case KindDelay:
		if n.Delay != nil {
			if n.Delay.Label != "" {
				return n.Delay.Label
			}
			return fmt.Sprintf("wait %gh", n.Delay.DelayHours)
		}
	}
	return n.ID
}
