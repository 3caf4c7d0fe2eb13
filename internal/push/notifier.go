package push

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cbonnaire/tidyquest/internal/model"
	"github.com/cbonnaire/tidyquest/internal/store"
)

// Notifier fans application events out to every registered push
// subscription, pruning endpoints the push service reports as gone.
type Notifier struct {
	service *Service
	subs    *store.PushStore
	logger  *slog.Logger
}

func NewNotifier(svc *Service, subs *store.PushStore, logger *slog.Logger) *Notifier {
	return &Notifier{
		service: svc,
		subs:    subs,
		logger:  logger,
	}
}

// NotifyWeeklyReset announces the archived podium after a weekly reset.
// A nil podium (a week without participants) sends nothing.
func (n *Notifier) NotifyWeeklyReset(ctx context.Context, podium *model.Podium) {
	if podium == nil {
		return
	}

	body := fmt.Sprintf("%s takes first place with %d points!", podium.First.Name, podium.First.Points)
	if podium.Second != nil {
		body += fmt.Sprintf(" %s is second with %d.", podium.Second.Name, podium.Second.Points)
	}

	n.sendAll(ctx, 0, Payload{
		Title: "New week, new podium",
		Body:  body,
		URL:   "/podium",
		Tag:   "weekly-reset",
	})
}

// NotifyUrgentTask alerts everyone except the creator that a
// high-urgency task was posted.
func (n *Notifier) NotifyUrgentTask(ctx context.Context, task model.Task, createdBy int64) {
	if task.Urgency != model.UrgencyHigh {
		return
	}

	n.sendAll(ctx, createdBy, Payload{
		Title: "Urgent task posted",
		Body:  fmt.Sprintf("%s needs doing (+%d points)", task.Name, task.Points),
		URL:   "/tasks",
		Tag:   fmt.Sprintf("urgent-task-%d", task.ID),
	})
}

func (n *Notifier) sendAll(ctx context.Context, excludeUserID int64, payload Payload) {
	if !n.service.Enabled() {
		return
	}

	subs, err := n.subs.List()
	if err != nil {
		n.logger.Error("list push subscriptions", "error", err)
		return
	}

	for _, sub := range subs {
		if excludeUserID != 0 && sub.UserID == excludeUserID {
			continue
		}
		if err := n.service.Send(ctx, &sub, payload); err != nil {
			if errors.Is(err, ErrExpired) {
				if err := n.subs.Delete(sub.ID); err != nil {
					n.logger.Error("prune expired subscription", "id", sub.ID, "error", err)
				}
				continue
			}
			n.logger.Warn("send push", "endpoint", sub.Endpoint, "error", err)
		}
	}
}
