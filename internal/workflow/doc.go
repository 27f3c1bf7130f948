// Package workflow defines the automation workflow graph model.
//
// A workflow is an authored graph of nodes (trigger, condition, delay,
// action) connected by directed edges. The authoring tool only produces
// strictly linear chains, so the engine interprets a workflow as one
// linear path per trigger rather than as a general graph.
//
// Node data is a tagged union: Node.Kind names the variant and exactly
// one of the typed data pointers (Trigger, Condition, Action, Delay) is
// populated. Variants are checked at load time by Validate, not cast at
// read time.
//
// The JSON wire format matches what the visual editor persists:
//
//	{
//	  "nodes": [{"id": "...", "type": "trigger", "position": {...}, "data": {...}}],
//	  "edges": [{"id": "...", "source": "...", "target": "..."}]
//	}
//
// The position field is UI-only; it round-trips unchanged and the engine
// never reads it.
package workflow
