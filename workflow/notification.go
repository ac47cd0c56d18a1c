package workflow

import (
	"context"
	"sort"

	"github.com/hcquillabamba/custodia/model"
)

// OpenNotifications returns the acting user's notifications newest
// first and marks them read, exactly as the notification panel does.
func (s *Service) OpenNotifications(ctx context.Context, actor *model.User) ([]*model.Notification, error) {
	op := "open_notifications"
	if err := requireActor(actor); err != nil {
		return nil, s.finish(op, err)
	}

	s.state.Lock()
	defer s.state.Unlock()

	var own []*model.Notification
	changed := false
	for _, n := range s.state.Notifications {
		if n.UserID != actor.Username {
			continue
		}
		if !n.IsRead {
			n.IsRead = true
			changed = true
		}
		copied := *n
		own = append(own, &copied)
	}
	sort.SliceStable(own, func(i, j int) bool {
		return own[i].Timestamp.After(own[j].Timestamp)
	})
	if changed {
		s.state.SaveNotifications(ctx)
	}
	return own, s.finish(op, nil)
}
