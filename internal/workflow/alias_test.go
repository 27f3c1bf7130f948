package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTriggerForEvent(t *testing.T) {
	testCases := []struct {
		eventType string
		want      TriggerType
	}{
		{"meta:comment", TriggerNewComment},
		{"meta:mention", TriggerNewComment},
		{"meta:like", TriggerNewLike},
		{"youtube:video_uploaded", TriggerNewYouTubeVideo},
		{"youtube:new_subscriber", TriggerNewSubscriber},
		{"post_published", TriggerPostPublished},
		// identity fallback for anything outside the table
		{"linkedin:event", TriggerType("linkedin:event")},
		{"foo:bar", TriggerType("foo:bar")},
	}

	for _, tc := range testCases {
		t.Run(tc.eventType, func(t *testing.T) {
			assert.Equal(t, tc.want, TriggerForEvent(tc.eventType))
		})
	}
}

func TestEventTypesFor(t *testing.T) {
	testCases := []struct {
		trigger TriggerType
		want    []string
	}{
		{TriggerNewComment, []string{"new_comment", "meta:comment", "meta:mention"}},
		{TriggerNewLike, []string{"new_like", "meta:like"}},
		{TriggerNewYouTubeVideo, []string{"new_youtube_video", "youtube:video_uploaded"}},
		{TriggerNewSubscriber, []string{"new_subscriber", "youtube:new_subscriber"}},
		{TriggerPostPublished, []string{"post_published"}},
		// raw-typed triggers subscribe their event type verbatim
		{TriggerType("linkedin:event"), []string{"linkedin:event"}},
		{TriggerType("meta:like"), []string{"meta:like"}},
	}

	for _, tc := range testCases {
		t.Run(string(tc.trigger), func(t *testing.T) {
			assert.Equal(t, tc.want, EventTypesFor(tc.trigger))
		})
	}
}

func TestSubscriptionSet_DeduplicatesAcrossTriggers(t *testing.T) {
	g := &Graph{
		Nodes: []Node{
			{ID: "t1", Kind: KindTrigger, Trigger: &TriggerData{TriggerType: TriggerNewComment}},
			{ID: "t2", Kind: KindTrigger, Trigger: &TriggerData{TriggerType: TriggerNewComment}},
			{ID: "t3", Kind: KindTrigger, Trigger: &TriggerData{TriggerType: TriggerNewLike}},
		},
	}

	got := SubscriptionSet(g)
	assert.Equal(t, []string{"new_comment", "meta:comment", "meta:mention", "new_like", "meta:like"}, got)
}

func TestSubscriptionSet_NoTriggers(t *testing.T) {
	g := &Graph{
		Nodes: []Node{
			{ID: "a1", Kind: KindAction, Action: &ActionData{ActionType: ActionFlagContent}},
		},
	}
	assert.Empty(t, SubscriptionSet(g))
}
