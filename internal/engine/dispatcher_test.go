package engine_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillo/pulse/internal/bus"
	"github.com/skillo/pulse/internal/engine"
	"github.com/skillo/pulse/internal/testutil"
	"github.com/skillo/pulse/internal/workflow"
)

func actionRule(at workflow.ActionType) *engine.Rule {
	return &engine.Rule{
		Trigger: &workflow.Node{ID: "t1", Kind: workflow.KindTrigger, Trigger: &workflow.TriggerData{TriggerType: workflow.TriggerNewLike}},
		Action:  &workflow.Node{ID: "a1", Kind: workflow.KindAction, Action: &workflow.ActionData{ActionType: at}},
		Path:    []string{"t1", "a1"},
	}
}

func withCondition(r *engine.Rule, ct workflow.ConditionType, threshold float64) *engine.Rule {
	r.Condition = &workflow.Node{
		ID:        "c1",
		Kind:      workflow.KindCondition,
		Condition: &workflow.ConditionData{ConditionType: ct, Threshold: &threshold},
	}
	return r
}

func withDelay(r *engine.Rule, hours float64) *engine.Rule {
	r.Delay = &workflow.Node{
		ID:    "d1",
		Kind:  workflow.KindDelay,
		Delay: &workflow.DelayData{DelayHours: hours},
	}
	return r
}

func TestDispatch_ImmediateAction(t *testing.T) {
	runner := testutil.NewRecordingRunner()
	d := engine.NewDispatcher(runner)

	d.Dispatch("wf-1", "new_like", actionRule(workflow.ActionSendNotification),
		bus.Payload{"mediaId": "m1"}, engine.RunContext{UserID: "u1"})

	runner.WaitForRuns(t, 1, time.Second)
	runs := runner.Runs()
	assert.Equal(t, workflow.ActionSendNotification, runs[0].Action)
	assert.Equal(t, "m1", runs[0].Payload.String("mediaId"))
	assert.Equal(t, "u1", runs[0].Context.UserID)
}

func TestDispatch_NilRuleOrActionIsNoOp(t *testing.T) {
	runner := testutil.NewRecordingRunner()
	d := engine.NewDispatcher(runner)

	d.Dispatch("wf-1", "new_like", nil, bus.Payload{}, engine.RunContext{})
	d.Dispatch("wf-1", "new_like", &engine.Rule{}, bus.Payload{}, engine.RunContext{})

	runner.AssertNoRuns(t, 50*time.Millisecond)
}

func TestDispatch_ConditionGate(t *testing.T) {
	runner := testutil.NewRecordingRunner()
	d := engine.NewDispatcher(runner, engine.WithSyncRun())

	rule := withCondition(actionRule(workflow.ActionFetchInsights), workflow.ConditionEngagementLessThan, 10)

	d.Dispatch("wf-1", "post_published", rule, bus.Payload{"engagement": 50.0}, engine.RunContext{})
	assert.Equal(t, 0, runner.Len(), "condition false suppresses the action")

	d.Dispatch("wf-1", "post_published", rule, bus.Payload{"engagement": 5.0}, engine.RunContext{})
	assert.Equal(t, 1, runner.Len())
}

func TestDispatch_DelayedActionFiresAfterAdvance(t *testing.T) {
	runner := testutil.NewRecordingRunner()
	clock := engine.NewManualClock()
	d := engine.NewDispatcher(runner, engine.WithClock(clock))

	rule := withDelay(actionRule(workflow.ActionFetchInsights), 24)
	d.Dispatch("wf-1", "post_published", rule, bus.Payload{"postId": "p1"}, engine.RunContext{})

	assert.Equal(t, 0, runner.Len())
	assert.Equal(t, 1, d.PendingCount("wf-1"))

	clock.Advance(23 * time.Hour)
	assert.Equal(t, 0, runner.Len(), "must not fire before the full delay")

	clock.Advance(time.Hour)
	require.Equal(t, 1, runner.Len())
	assert.Equal(t, 0, d.PendingCount("wf-1"))

	// Further advances must not re-fire.
	clock.Advance(48 * time.Hour)
	assert.Equal(t, 1, runner.Len())
}

func TestDispatch_ZeroDelayRunsImmediately(t *testing.T) {
	runner := testutil.NewRecordingRunner()
	clock := engine.NewManualClock()
	d := engine.NewDispatcher(runner, engine.WithClock(clock), engine.WithSyncRun())

	rule := withDelay(actionRule(workflow.ActionSendNotification), 0)
	d.Dispatch("wf-1", "new_like", rule, bus.Payload{}, engine.RunContext{})

	assert.Equal(t, 1, runner.Len())
	assert.Equal(t, 0, d.PendingCount("wf-1"))
}

func TestDispatch_CancelPending(t *testing.T) {
	runner := testutil.NewRecordingRunner()
	clock := engine.NewManualClock()
	d := engine.NewDispatcher(runner, engine.WithClock(clock))

	rule := withDelay(actionRule(workflow.ActionFetchInsights), 2)
	d.Dispatch("wf-1", "post_published", rule, bus.Payload{}, engine.RunContext{})
	d.Dispatch("wf-1", "post_published", rule, bus.Payload{}, engine.RunContext{})
	d.Dispatch("wf-2", "post_published", rule, bus.Payload{}, engine.RunContext{})

	assert.Equal(t, 2, d.CancelPending("wf-1"))
	assert.Equal(t, 0, d.PendingCount("wf-1"))
	assert.Equal(t, 1, d.PendingCount("wf-2"))

	clock.Advance(3 * time.Hour)
	assert.Equal(t, 1, runner.Len(), "only the other owner's timer fires")

	assert.Equal(t, 0, d.CancelPending("wf-1"), "cancel is idempotent")
}

func TestDispatch_RunnerErrorIsAbsorbed(t *testing.T) {
	runner := testutil.NewRecordingRunner()
	runner.FailWith(errors.New("insights API down"))
	d := engine.NewDispatcher(runner, engine.WithSyncRun())

	assert.NotPanics(t, func() {
		d.Dispatch("wf-1", "post_published", actionRule(workflow.ActionFetchInsights),
			bus.Payload{}, engine.RunContext{})
	})
	assert.Equal(t, 1, runner.Len(), "invocation happens even though it fails")
}

func TestDispatch_UnknownActionIsAbsorbed(t *testing.T) {
	d := engine.NewDispatcher(engine.RunnerMap{}, engine.WithSyncRun())

	assert.NotPanics(t, func() {
		d.Dispatch("wf-1", "new_like", actionRule(workflow.ActionFlagContent),
			bus.Payload{}, engine.RunContext{})
	})
}

func TestDispatch_RecordsToJournal(t *testing.T) {
	runner := testutil.NewRecordingRunner()
	rec := &capturingRecorder{}
	d := engine.NewDispatcher(runner, engine.WithSyncRun(), engine.WithRecorder(rec))

	d.Dispatch("wf-1", "new_like", actionRule(workflow.ActionSendNotification),
		bus.Payload{"mediaId": "m1"}, engine.RunContext{})

	require.Len(t, rec.records, 1)
	assert.Equal(t, "new_like", rec.records[0].EventType)
	assert.Equal(t, workflow.ActionSendNotification, rec.records[0].Action)
	assert.NoError(t, rec.records[0].Err)
}

func TestDispatch_RecordsFailureOutcome(t *testing.T) {
	runner := testutil.NewRecordingRunner()
	runner.FailWith(errors.New("boom"))
	rec := &capturingRecorder{}
	d := engine.NewDispatcher(runner, engine.WithSyncRun(), engine.WithRecorder(rec))

	d.Dispatch("wf-1", "new_like", actionRule(workflow.ActionSendNotification),
		bus.Payload{}, engine.RunContext{})

	require.Len(t, rec.records, 1)
	assert.Error(t, rec.records[0].Err)
}

type capturingRecorder struct {
	records []engine.Dispatch
}

func (r *capturingRecorder) RecordDispatch(_ context.Context, rec engine.Dispatch) error {
	r.records = append(r.records, rec)
	return nil
}
