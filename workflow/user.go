package workflow

import (
	"context"
	"strings"

	"github.com/hcquillabamba/custodia/model"
	apperrors "github.com/hcquillabamba/custodia/pkg/errors"
)

// UserInput creates a user. Service is required for guests only.
type UserInput struct {
	Username string
	Password string
	Role     string
	Service  string
}

// Login compares credentials verbatim against the users collection
// (username case-insensitive) and stores the session.
func (s *Service) Login(ctx context.Context, username, password string) (*model.User, error) {
	op := "login"

	s.state.RLock()
	defer s.state.RUnlock()

	user := s.state.UserByUsername(username)
	if user == nil || user.Password != password {
		return nil, s.finish(op, apperrors.Unauthorized("incorrect username or password"))
	}

	s.sessions.Set(user)
	s.logger.Info().
		Str("operation", op).
		Str("username", user.Username).
		Str("role", user.Role).
		Msg("user logged in")

	copied := *user
	return &copied, s.finish(op, nil)
}

// Logout clears the session slot.
func (s *Service) Logout() {
	s.sessions.Clear()
}

// CurrentUser returns the session's user, or nil when logged out.
func (s *Service) CurrentUser() *model.User {
	return s.sessions.Current()
}

// AddUser inserts a trimmed-username user.
func (s *Service) AddUser(ctx context.Context, actor *model.User, in UserInput) (*model.User, error) {
	op := "add_user"
	if err := requireAdmin(actor); err != nil {
		return nil, s.finish(op, err)
	}

	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || strings.TrimSpace(in.Password) == "" {
		return nil, s.finish(op, apperrors.Validation("username and password must not be empty"))
	}
	if in.Role != model.RoleAdmin && in.Role != model.RoleGuest {
		return nil, s.finish(op, apperrors.Validation("role must be admin or invitado"))
	}
	if in.Role == model.RoleGuest && strings.TrimSpace(in.Service) == "" {
		return nil, s.finish(op, apperrors.Validation("guests require an assigned service"))
	}
	if in.Role == model.RoleAdmin {
		in.Service = ""
	}

	s.state.Lock()
	defer s.state.Unlock()

	if s.state.UserByUsername(in.Username) != nil {
		return nil, s.finish(op, apperrors.Conflict("username already exists"))
	}

	user := model.User{
		Username: in.Username,
		Password: in.Password,
		Role:     in.Role,
		Service:  strings.TrimSpace(in.Service),
	}
	s.state.Users = append(s.state.Users, user)
	s.state.SaveUsers(ctx)

	s.logger.Info().
		Str("operation", op).
		Str("username", user.Username).
		Str("role", user.Role).
		Msg("user added")

	copied := user
	return &copied, s.finish(op, nil)
}

// DeleteUser removes the user and cascades: their open requests and
// their notifications go with them. The seeded default administrator
// and the acting account are protected, compared case-insensitively
// like every username lookup.
func (s *Service) DeleteUser(ctx context.Context, actor *model.User, username string) error {
	op := "delete_user"
	if err := requireAdmin(actor); err != nil {
		return s.finish(op, err)
	}
	if strings.EqualFold(username, s.state.DefaultAdmin()) {
		return s.finish(op, apperrors.PermissionDenied("the default administrator cannot be deleted"))
	}
	if strings.EqualFold(username, actor.Username) {
		return s.finish(op, apperrors.PermissionDenied("the active account cannot delete itself"))
	}

	s.state.Lock()
	defer s.state.Unlock()

	target := s.state.UserByUsername(username)
	if target == nil {
		return s.finish(op, apperrors.NotFound("user"))
	}
	deleted := target.Username

	keptUsers := s.state.Users[:0]
	for _, u := range s.state.Users {
		if u.Username != deleted {
			keptUsers = append(keptUsers, u)
		}
	}
	s.state.Users = keptUsers

	keptRequests := s.state.Requests[:0]
	for _, req := range s.state.Requests {
		if req.RequesterName != deleted {
			keptRequests = append(keptRequests, req)
		}
	}
	s.state.Requests = keptRequests

	keptNotifications := s.state.Notifications[:0]
	for _, n := range s.state.Notifications {
		if n.UserID != deleted {
			keptNotifications = append(keptNotifications, n)
		}
	}
	s.state.Notifications = keptNotifications

	s.state.SaveUsers(ctx)
	s.state.SaveRequests(ctx)
	s.state.SaveNotifications(ctx)

	s.logger.Info().
		Str("operation", op).
		Str("username", deleted).
		Msg("user deleted")
	return s.finish(op, nil)
}
