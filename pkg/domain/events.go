package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventBatchStart    EventType = "batch_start"
	EventTrialComplete EventType = "trial_complete"
	EventBatchComplete EventType = "batch_complete"
	EventTeleport      EventType = "teleport"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// BatchEvent marks the start or end of a batch of trials.
type BatchEvent struct {
	EventBase
	Policy  Policy        `json:"policy"`
	Steps   int           `json:"steps"`
	Trials  int           `json:"trials"`
	Elapsed time.Duration `json:"elapsed,omitempty"`
	Failed  bool          `json:"failed,omitempty"`
}

// TrialEvent reports the outcome of one trial.
type TrialEvent struct {
	EventBase
	Policy   Policy  `json:"policy"`
	Steps    int     `json:"steps"`
	Trial    int     `json:"trial"`
	Distance float64 `json:"distance"`
}

// TeleportEvent reports a walker redirected through a wormhole.
type TeleportEvent struct {
	EventBase
	Walker string   `json:"walker"`
	From   Location `json:"from"`
	To     Location `json:"to"`
}

// LifecycleHooks defines callbacks for simulator observability.
// Any field may be nil.
type LifecycleHooks struct {
	OnBatchStart    func(context.Context, *BatchEvent)
	OnTrialComplete func(context.Context, *TrialEvent)
	OnBatchComplete func(context.Context, *BatchEvent)
	OnTeleport      func(*TeleportEvent)
}

// ChainHooks returns hooks that invoke every non-nil callback of hs in order.
func ChainHooks(hs ...LifecycleHooks) LifecycleHooks {
	var out LifecycleHooks
	for _, h := range hs {
		if h.OnBatchStart != nil {
			prev := out.OnBatchStart
			out.OnBatchStart = func(ctx context.Context, e *BatchEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				h.OnBatchStart(ctx, e)
			}
		}
		if h.OnTrialComplete != nil {
			prev := out.OnTrialComplete
			out.OnTrialComplete = func(ctx context.Context, e *TrialEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				h.OnTrialComplete(ctx, e)
			}
		}
		if h.OnBatchComplete != nil {
			prev := out.OnBatchComplete
			out.OnBatchComplete = func(ctx context.Context, e *BatchEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				h.OnBatchComplete(ctx, e)
			}
		}
		if h.OnTeleport != nil {
			prev := out.OnTeleport
			out.OnTeleport = func(e *TeleportEvent) {
				if prev != nil {
					prev(e)
				}
				h.OnTeleport(e)
			}
		}
	}
	return out
}
