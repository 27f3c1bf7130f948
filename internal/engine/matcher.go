package engine

import "github.com/skillo/pulse/internal/workflow"

// Rule is the single linear trigger→[condition|delay]→action path
// matched for one event. Condition and Delay are mutually exclusive in
// practice (a matched path holds at most one of them); Action may be
// nil, in which case the rule is a no-op.
type Rule struct {
	Trigger   *workflow.Node
	Condition *workflow.Node
	Delay     *workflow.Node
	Action    *workflow.Node

	// Path lists the matched node ids in traversal order.
	Path []string
}

// MatchRule finds the path a workflow executes for an incoming event
// type, or nil when no trigger node matches.
//
// The event type is first translated to an abstract trigger type via
// the alias table (identity fallback for unknown types). A trigger node
// matches on either the translated type or the raw event type, because
// a workflow might store either representation.
//
// From the matched trigger, traversal follows the FIRST outgoing edge
// in authored order. A condition or delay node forwards once more to an
// action node the same way. Any other shape (another trigger, a missing
// target, no edge at all) yields a rule without an action: a no-op.
func MatchRule(g *workflow.Graph, eventType string) *Rule {
	triggerType := workflow.TriggerForEvent(eventType)

	var trigger *workflow.Node
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if n.Kind != workflow.KindTrigger || n.Trigger == nil {
			continue
		}
		if n.Trigger.TriggerType == triggerType || n.Trigger.TriggerType == workflow.TriggerType(eventType) {
			trigger = n
			break
		}
	}
	if trigger == nil {
		return nil
	}

	rule := &Rule{Trigger: trigger, Path: []string{trigger.ID}}

	edge := g.FirstEdgeFrom(trigger.ID)
	if edge == nil {
		// Trigger only: no condition, no action.
		return rule
	}
	next := g.NodeByID(edge.Target)
	if next == nil {
		return rule
	}
	rule.Path = append(rule.Path, next.ID)

	switch next.Kind {
	case workflow.KindCondition:
		rule.Condition = next
		rule.Action = followToAction(g, next.ID, rule)
	case workflow.KindAction:
		rule.Action = next
	case workflow.KindDelay:
		rule.Delay = next
		rule.Action = followToAction(g, next.ID, rule)
	}

	return rule
}

// followToAction follows the first outgoing edge of a condition or
// delay node and returns its target when that target is an action node.
func followToAction(g *workflow.Graph, nodeID string, rule *Rule) *workflow.Node {
	edge := g.FirstEdgeFrom(nodeID)
	if edge == nil {
		return nil
	}
	target := g.NodeByID(edge.Target)
	if target == nil || target.Kind != workflow.KindAction {
		return nil
	}
	rule.Path = append(rule.Path, target.ID)
	return target
}
