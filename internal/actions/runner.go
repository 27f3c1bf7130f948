// Package actions provides the default action runner: concrete handlers
// for the four automation action types, delegating platform side
// effects to injected clients. The concrete platform integrations
// (Meta, LinkedIn, YouTube services) live outside the engine; this
// package only routes to them.
package actions

import (
	"context"
	"log/slog"

	"github.com/skillo/pulse/internal/bus"
	"github.com/skillo/pulse/internal/engine"
	"github.com/skillo/pulse/internal/workflow"
)

// InsightsClient fetches engagement metrics for a user on one platform.
type InsightsClient interface {
	FetchInsights(ctx context.Context, userID, platform string) (map[string]any, error)
}

// Publisher creates posts on a platform.
type Publisher interface {
	CreateTextPost(ctx context.Context, userID, text string) error
}

// Notifier delivers a notification message.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

type runner struct {
	insights  InsightsClient
	publisher Publisher
	notifier  Notifier
}

// NewRunner builds the static action table for the dispatcher. Any
// client may be nil; handlers needing an absent client log and succeed,
// since actions are best-effort side effects.
func NewRunner(insights InsightsClient, publisher Publisher, notifier Notifier) engine.RunnerMap {
	r := &runner{insights: insights, publisher: publisher, notifier: notifier}
	return engine.RunnerMap{
		workflow.ActionFetchInsights:      r.fetchInsights,
		workflow.ActionSendNotification:   r.sendNotification,
		workflow.ActionCreateLinkedInPost: r.createLinkedInPost,
		workflow.ActionFlagContent:        r.flagContent,
	}
}

// fetchInsights routes to the platform named in the payload. Unknown or
// missing platforms are a logged no-op.
func (r *runner) fetchInsights(ctx context.Context, payload bus.Payload, rc engine.RunContext) error {
	platform := payload.String("platform")
	if platform == "" {
		platform = payload.String("insightsPlatform")
	}

	switch platform {
	case "meta", "instagram", "linkedin", "youtube":
		if r.insights == nil {
			slog.Warn("no insights client configured", "platform", platform)
			return nil
		}
		_, err := r.insights.FetchInsights(ctx, rc.UserID, platform)
		return err
	default:
		slog.Debug("fetch_insights: unknown platform", "platform", platform)
		return nil
	}
}

func (r *runner) sendNotification(ctx context.Context, payload bus.Payload, _ engine.RunContext) error {
	message := payload.String("message")
	if r.notifier == nil {
		slog.Info("notification", "message", message)
		return nil
	}
	return r.notifier.Notify(ctx, message)
}

// createLinkedInPost posts the first usable text field from the
// payload, with the original's fallback copy when none is present.
func (r *runner) createLinkedInPost(ctx context.Context, payload bus.Payload, rc engine.RunContext) error {
	text := payload.String("text")
	if text == "" {
		text = payload.String("caption")
	}
	if text == "" {
		text = payload.String("title")
	}
	if text == "" {
		text = "Check this out"
	}

	if r.publisher == nil {
		slog.Warn("no publisher configured, dropping linkedin post", "text", text)
		return nil
	}
	return r.publisher.CreateTextPost(ctx, rc.UserID, text)
}

// flagContent marks content for review. Flagging has no platform call;
// it surfaces through the log and the dispatch journal.
func (r *runner) flagContent(_ context.Context, payload bus.Payload, _ engine.RunContext) error {
	contentID := payload.String("mediaId")
	if contentID == "" {
		contentID = payload.String("videoId")
	}
	if contentID == "" {
		contentID = payload.String("postId")
	}
	slog.Info("content flagged", "content_id", contentID)
	return nil
}
