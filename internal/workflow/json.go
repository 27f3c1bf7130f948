package workflow

import (
	"encoding/json"
	"fmt"
)

// nodeEnvelope is the wire shape of a single node.
type nodeEnvelope struct {
	ID       string   `json:"id"`
	Type     NodeKind `json:"type"`
	Position Position `json:"position"`
	Data     nodeData `json:"data"`
}

// nodeData is the union of all per-kind data fields. Which fields are
// meaningful depends on the envelope's type; decoding picks the variant.
type nodeData struct {
	Label         string         `json:"label,omitempty"`
	TriggerType   TriggerType    `json:"triggerType,omitempty"`
	ConditionType ConditionType  `json:"conditionType,omitempty"`
	Threshold     *float64       `json:"threshold,omitempty"`
	Value         *float64       `json:"value,omitempty"`
	ActionType    ActionType     `json:"actionType,omitempty"`
	Config        map[string]any `json:"config,omitempty"`
	DelayHours    *float64       `json:"delayHours,omitempty"`
}

type edgeEnvelope struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

type graphEnvelope struct {
	Nodes []nodeEnvelope `json:"nodes"`
	Edges []edgeEnvelope `json:"edges"`
}

// UnmarshalJSON decodes a node from the editor's wire format, selecting
// the data variant from the type field.
func (n *Node) UnmarshalJSON(data []byte) error {
	var env nodeEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	decoded, err := nodeFromEnvelope(env)
	if err != nil {
		return err
	}
	*n = decoded
	return nil
}

// MarshalJSON encodes a node back into the editor's wire format.
func (n Node) MarshalJSON() ([]byte, error) {
	env, err := n.envelope()
	if err != nil {
		return nil, err
	}
	return json.Marshal(env)
}

// UnmarshalJSON decodes a full workflow graph.
func (g *Graph) UnmarshalJSON(data []byte) error {
	var env graphEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	graph := Graph{}
	for _, ne := range env.Nodes {
		node, err := nodeFromEnvelope(ne)
		if err != nil {
			return err
		}
		graph.Nodes = append(graph.Nodes, node)
	}
	for _, ee := range env.Edges {
		graph.Edges = append(graph.Edges, Edge{ID: ee.ID, Source: ee.Source, Target: ee.Target})
	}
	*g = graph
	return nil
}

// MarshalJSON encodes a full workflow graph. Empty node and edge sets
// encode as [] rather than null to match what the editor produces.
func (g Graph) MarshalJSON() ([]byte, error) {
	env := graphEnvelope{
		Nodes: make([]nodeEnvelope, 0, len(g.Nodes)),
		Edges: make([]edgeEnvelope, 0, len(g.Edges)),
	}
	for _, n := range g.Nodes {
		ne, err := n.envelope()
		if err != nil {
			return nil, err
		}
		env.Nodes = append(env.Nodes, ne)
	}
	for _, e := range g.Edges {
		env.Edges = append(env.Edges, edgeEnvelope{ID: e.ID, Source: e.Source, Target: e.Target})
	}
	return json.Marshal(env)
}

func nodeFromEnvelope(env nodeEnvelope) (Node, error) {
	n := Node{ID: env.ID, Kind: env.Type, Position: env.Position}

	switch env.Type {
	case KindTrigger:
		n.Trigger = &TriggerData{
			Label:       env.Data.Label,
			TriggerType: env.Data.TriggerType,
		}
	case KindCondition:
		n.Condition = &ConditionData{
			Label:         env.Data.Label,
			ConditionType: env.Data.ConditionType,
			Threshold:     env.Data.Threshold,
			Value:         env.Data.Value,
		}
	case KindAction:
		n.Action = &ActionData{
			Label:      env.Data.Label,
			ActionType: env.Data.ActionType,
			Config:     env.Data.Config,
		}
	case KindDelay:
		hours := 0.0
		if env.Data.DelayHours != nil {
			hours = *env.Data.DelayHours
		}
		n.Delay = &DelayData{
			Label:      env.Data.Label,
			DelayHours: hours,
		}
	default:
		return Node{}, fmt.Errorf("node %q: unknown node type %q", env.ID, env.Type)
	}

	return n, nil
}

func (n Node) envelope() (nodeEnvelope, error) {
	env := nodeEnvelope{ID: n.ID, Type: n.Kind, Position: n.Position}

	switch n.Kind {
	case KindTrigger:
		if n.Trigger == nil {
			return nodeEnvelope{}, fmt.Errorf("node %q: trigger node missing trigger data", n.ID)
		}
		env.Data = nodeData{Label: n.Trigger.Label, TriggerType: n.Trigger.TriggerType}
	case KindCondition:
		if n.Condition == nil {
			return nodeEnvelope{}, fmt.Errorf("node %q: condition node missing condition data", n.ID)
		}
		env.Data = nodeData{
			Label:         n.Condition.Label,
			ConditionType: n.Condition.ConditionType,
			Threshold:     n.Condition.Threshold,
			Value:         n.Condition.Value,
		}
	case KindAction:
		if n.Action == nil {
			return nodeEnvelope{}, fmt.Errorf("node %q: action node missing action data", n.ID)
		}
		env.Data = nodeData{Label: n.Action.Label, ActionType: n.Action.ActionType, Config: n.Action.Config}
	case KindDelay:
		if n.Delay == nil {
			return nodeEnvelope{}, fmt.Errorf("node %q: delay node missing delay data", n.ID)
		}
		hours := n.Delay.DelayHours
		env.Data = nodeData{Label: n.Delay.Label, DelayHours: &hours}
	default:
		return nodeEnvelope{}, fmt.Errorf("node %q: unknown node kind %q", n.ID, n.Kind)
	}

	return env, nil
}
