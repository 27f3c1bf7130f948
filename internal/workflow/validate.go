package workflow

import (
	"fmt"
	"strings"
)

// Validation error codes (W100-W199)
const (
	// Node errors (W101-W109)
	ErrNodeIDEmpty        = "W101" // node id is required
	ErrDuplicateNodeID    = "W102" // duplicate node id
	ErrMissingNodeData    = "W103" // node lacks required data fields
	ErrUnknownTriggerType = "W104" // trigger type not in the authoring set
	ErrUnknownActionType  = "W105" // action type has no dispatchable handler
	ErrNegativeDelay      = "W106" // delay hours must be >= 0

	// Edge errors (W110-W119)
	ErrEdgeIDEmpty       = "W110" // edge id is required
	ErrDuplicateEdgeID   = "W111" // duplicate edge id
	ErrDanglingEdge      = "W112" // edge references a missing node
	ErrEdgeSelfReference = "W113" // edge source equals target
)

// ValidationError describes one problem with a workflow graph.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ValidationErrors aggregates all problems found in one graph.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks a workflow graph's structural invariants at
// registration time rather than failing silently deep in matching.
// Returns all errors found (does not fail fast); nil means valid.
//
// Unknown condition types are deliberately NOT rejected: the evaluator
// treats them as "always", so an old workflow keeps working when the
// condition vocabulary shrinks.
func Validate(g *Graph) ValidationErrors {
	var errs ValidationErrors

	nodeIDs := make(map[string]bool, len(g.Nodes))
	for i := range g.Nodes {
		n := &g.Nodes[i]
		field := fmt.Sprintf("nodes[%d]", i)

		if n.ID == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".id",
				Message: "node id is required",
				Code:    ErrNodeIDEmpty,
			})
		} else if nodeIDs[n.ID] {
			errs = append(errs, ValidationError{
				Field:   field + ".id",
				Message: fmt.Sprintf("duplicate node id: %q", n.ID),
				Code:    ErrDuplicateNodeID,
			})
		}
		nodeIDs[n.ID] = true

		errs = append(errs, validateNodeData(n, field)...)
	}

	edgeIDs := make(map[string]bool, len(g.Edges))
	for i := range g.Edges {
		e := &g.Edges[i]
		field := fmt.Sprintf("edges[%d]", i)

		if e.ID == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".id",
				Message: "edge id is required",
				Code:    ErrEdgeIDEmpty,
			})
		} else if edgeIDs[e.ID] {
			errs = append(errs, ValidationError{
				Field:   field + ".id",
				Message: fmt.Sprintf("duplicate edge id: %q", e.ID),
				Code:    ErrDuplicateEdgeID,
			})
		}
		edgeIDs[e.ID] = true

		if !nodeIDs[e.Source] {
			errs = append(errs, ValidationError{
				Field:   field + ".source",
				Message: fmt.Sprintf("edge %q references missing node %q", e.ID, e.Source),
				Code:    ErrDanglingEdge,
			})
		}
		if !nodeIDs[e.Target] {
			errs = append(errs, ValidationError{
				Field:   field + ".target",
				Message: fmt.Sprintf("edge %q references missing node %q", e.ID, e.Target),
				Code:    ErrDanglingEdge,
			})
		}
		if e.Source != "" && e.Source == e.Target {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("edge %q connects node %q to itself", e.ID, e.Source),
				Code:    ErrEdgeSelfReference,
			})
		}
	}

	return errs
}

func validateNodeData(n *Node, field string) ValidationErrors {
	var errs ValidationErrors

	switch n.Kind {
	case KindTrigger:
		if n.Trigger == nil || n.Trigger.TriggerType == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".data.triggerType",
				Message: "trigger node requires a trigger type",
				Code:    ErrMissingNodeData,
			})
		} else if !ValidTriggerTypes[n.Trigger.TriggerType] && !RawEventTypes[string(n.Trigger.TriggerType)] {
			errs = append(errs, ValidationError{
				Field:   field + ".data.triggerType",
				Message: fmt.Sprintf("unknown trigger type %q", n.Trigger.TriggerType),
				Code:    ErrUnknownTriggerType,
			})
		}
	case KindCondition:
		if n.Condition == nil || n.Condition.ConditionType == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".data.conditionType",
				Message: "condition node requires a condition type",
				Code:    ErrMissingNodeData,
			})
		}
	case KindAction:
		if n.Action == nil || n.Action.ActionType == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".data.actionType",
				Message: "action node requires an action type",
				Code:    ErrMissingNodeData,
			})
		} else if !ValidActionTypes[n.Action.ActionType] {
			errs = append(errs, ValidationError{
				Field:   field + ".data.actionType",
				Message: fmt.Sprintf("unknown action type %q", n.Action.ActionType),
				Code:    ErrUnknownActionType,
			})
		}
	case KindDelay:
		if n.Delay == nil {
			errs = append(errs, ValidationError{
				Field:   field + ".data",
				Message: "delay node requires delay data",
				Code:    ErrMissingNodeData,
			})
		} else if n.Delay.DelayHours < 0 {
			errs = append(errs, ValidationError{
				Field:   field + ".data.delayHours",
				Message: fmt.Sprintf("delay hours must be >= 0, got %v", n.Delay.DelayHours),
				Code:    ErrNegativeDelay,
			})
		}
	default:
		errs = append(errs, ValidationError{
			Field:   field + ".type",
			Message: fmt.Sprintf("unknown node kind %q", n.Kind),
			Code:    ErrMissingNodeData,
		})
	}

	return errs
}
