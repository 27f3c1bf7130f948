package workflow

// TriggerType names an abstract event the workflow starts on.
type TriggerType string

const (
	TriggerPostPublished   TriggerType = "post_published"
	TriggerNewComment      TriggerType = "new_comment"
	TriggerNewYouTubeVideo TriggerType = "new_youtube_video"
	TriggerNewLike         TriggerType = "new_like"
	TriggerNewSubscriber   TriggerType = "new_subscriber"
)

// ValidTriggerTypes defines the trigger types the authoring tool offers.
var ValidTriggerTypes = map[TriggerType]bool{
	TriggerPostPublished:   true,
	TriggerNewComment:      true,
	TriggerNewYouTubeVideo: true,
	TriggerNewLike:         true,
	TriggerNewSubscriber:   true,
}

// ConditionType names a boolean test over the event payload.
type ConditionType string

const (
	ConditionAlways             ConditionType = "always"
	ConditionEngagementLessThan ConditionType = "engagement_less_than"
	ConditionNoComments         ConditionType = "no_comments"
	ConditionReachBelow         ConditionType = "reach_below"
)

// ValidConditionTypes defines the condition types the authoring tool offers.
// The evaluator treats anything outside this set as "always", so membership
// is not enforced at validation time.
var ValidConditionTypes = map[ConditionType]bool{
	ConditionAlways:             true,
	ConditionEngagementLessThan: true,
	ConditionNoComments:         true,
	ConditionReachBelow:         true,
}

// ActionType names a side-effecting operation.
type ActionType string

const (
	ActionFetchInsights      ActionType = "fetch_insights"
	ActionSendNotification   ActionType = "send_notification"
	ActionCreateLinkedInPost ActionType = "create_linkedin_post"
	ActionFlagContent        ActionType = "flag_content"
)

// ValidActionTypes defines the action types with dispatchable handlers.
var ValidActionTypes = map[ActionType]bool{
	ActionFetchInsights:      true,
	ActionSendNotification:   true,
	ActionCreateLinkedInPost: true,
	ActionFlagContent:        true,
}

// NodeKind distinguishes node variants.
type NodeKind string

const (
	KindTrigger   NodeKind = "trigger"
	KindCondition NodeKind = "condition"
	KindAction    NodeKind = "action"
	KindDelay     NodeKind = "delay"
)

// Position is the node's placement in the visual editor.
// Carried through marshal/unmarshal unchanged; never read by the engine.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TriggerData is the payload of a trigger node.
type TriggerData struct {
	Label       string
	TriggerType TriggerType
}

// ConditionData is the payload of a condition node.
//
// Threshold and Value are pointers so that "absent" survives a round-trip;
// evaluation treats an absent threshold as 0.
type ConditionData struct {
	Label         string
	ConditionType ConditionType
	Threshold     *float64
	Value         *float64
}

// ThresholdOrZero returns the threshold, defaulting to 0 when absent.
func (c *ConditionData) ThresholdOrZero() float64 {
	if c == nil || c.Threshold == nil {
		return 0
	}
	return *c.Threshold
}

// ActionData is the payload of an action node.
type ActionData struct {
	Label      string
	ActionType ActionType
	Config     map[string]any
}

// DelayData is the payload of a delay node.
type DelayData struct {
	Label      string
	DelayHours float64
}

// Node is one vertex of a workflow graph.
//
// INVARIANT: exactly one of Trigger/Condition/Action/Delay is non-nil,
// and it corresponds to Kind. Validate enforces this.
type Node struct {
	ID       string
	Kind     NodeKind
	Position Position

	Trigger   *TriggerData
	Condition *ConditionData
	Action    *ActionData
	Delay     *DelayData
}

// Edge is a directed connection between two nodes.
type Edge struct {
	ID     string
	Source string
	Target string
}

// Graph is an immutable-once-registered workflow snapshot.
//
// Node and edge order is the authored order from the workflow JSON.
// Edge order matters: traversal always follows the first outgoing edge
// in authored order.
type Graph struct {
	Nodes []Node
	Edges []Edge
}

// NodeByID returns the node with the given id, or nil.
func (g *Graph) NodeByID(id string) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

// FirstEdgeFrom returns the first outgoing edge of a node in authored
// order, or nil when the node has none.
func (g *Graph) FirstEdgeFrom(nodeID string) *Edge {
	for i := range g.Edges {
		if g.Edges[i].Source == nodeID {
			return &g.Edges[i]
		}
	}
	return nil
}

// TriggerTypes returns the trigger types of every trigger node, in
// authored order. Trigger nodes with an empty type are skipped.
func (g *Graph) TriggerTypes() []TriggerType {
	var types []TriggerType
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if n.Kind != KindTrigger || n.Trigger == nil {
			continue
		}
		if n.Trigger.TriggerType == "" {
			continue
		}
		types = append(types, n.Trigger.TriggerType)
	}
	return types
}
