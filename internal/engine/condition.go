package engine

import (
	"github.com/skillo/pulse/internal/bus"
	"github.com/skillo/pulse/internal/workflow"
)

// Evaluate reports whether a condition passes for an event payload.
// Pure function: no side effects, no clock, no I/O.
//
// Semantics:
//
//	always (or any unrecognized/missing type) → true
//	engagement_less_than                      → payload.engagement < threshold
//	no_comments                               → payload.comments == 0
//	reach_below                               → payload.reach < threshold
//
// Missing numeric payload fields default to 0 and an absent threshold
// defaults to 0. Defaulting a missing metric to 0 fails OPEN toward
// triggering: an event with no engagement data satisfies
// engagement_less_than for any positive threshold. Tests pin this so a
// future change has to be deliberate.
func Evaluate(cond *workflow.ConditionData, payload bus.Payload) bool {
	if cond == nil {
		return true
	}

	threshold := cond.ThresholdOrZero()

	switch cond.ConditionType {
	case workflow.ConditionEngagementLessThan:
		engagement, _ := payload.Number("engagement")
		return engagement < threshold
	case workflow.ConditionNoComments:
		comments, _ := payload.Number("comments")
		return comments == 0
	case workflow.ConditionReachBelow:
		reach, _ := payload.Number("reach")
		return reach < threshold
	default:
		// always, empty, or unrecognized
		return true
	}
}
