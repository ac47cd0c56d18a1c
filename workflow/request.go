package workflow

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/hcquillabamba/custodia/model"
	apperrors "github.com/hcquillabamba/custodia/pkg/errors"
)

// RequestInput submits a loan request. The requester name is always the
// acting user; guests with an assigned service can only request for it.
type RequestInput struct {
	HCNumbers          string `validate:"required"`
	DestinationService string `validate:"required"`
}

// RequestResult reports what the submission did. When some numbers were
// unavailable but others went through, Request is set and the excluded
// lists plus Message explain the partial outcome.
type RequestResult struct {
	Request          *model.Request
	LoanedOut        []string
	AlreadyRequested []string
	Message          string
}

func unavailableMessage(loanedOut, alreadyRequested []string) string {
	parts := []string{"Algunas H.C. no pudieron ser solicitadas."}
	if len(loanedOut) > 0 {
		parts = append(parts, fmt.Sprintf("Ya prestada(s): %s.", apperrors.JoinHC(loanedOut)))
	}
	if len(alreadyRequested) > 0 {
		parts = append(parts, fmt.Sprintf("Ya en otra solicitud: %s.", apperrors.JoinHC(alreadyRequested)))
	}
	return strings.Join(parts, " ")
}

// SubmitRequest deduplicates the listed numbers, drops the ones already
// loaned out or already covered by an open request, and creates one
// request for the remainder. Only when every number is unavailable does
// the whole submission fail.
func (s *Service) SubmitRequest(ctx context.Context, actor *model.User, in RequestInput) (*RequestResult, error) {
	op := "submit_request"
	if err := requireActor(actor); err != nil {
		return nil, s.finish(op, err)
	}
	if actor.IsGuest() && actor.Service != "" {
		in.DestinationService = actor.Service
	}
	if err := s.validateInput(in); err != nil {
		return nil, s.finish(op, err)
	}

	hcNumbers := model.DedupeHCNumbers(model.ParseHCNumbers(in.HCNumbers))
	if len(hcNumbers) == 0 {
		return nil, s.finish(op, apperrors.Validation("at least one clinical history number is required"))
	}

	s.state.Lock()
	defer s.state.Unlock()

	var loanedOut, alreadyRequested, available []string
	for _, hc := range hcNumbers {
		switch {
		case s.state.OutRecordExists(hc, uuid.Nil):
			loanedOut = append(loanedOut, hc)
		case s.state.RequestedElsewhere(hc):
			alreadyRequested = append(alreadyRequested, hc)
		default:
			available = append(available, hc)
		}
	}

	if len(available) == 0 {
		unavailable := append(append([]string{}, loanedOut...), alreadyRequested...)
		return nil, s.finish(op, apperrors.Conflict(unavailableMessage(loanedOut, alreadyRequested), unavailable...))
	}

	request := &model.Request{
		ID:                 uuid.New(),
		HCNumbers:          available,
		DestinationService: in.DestinationService,
		RequesterName:      actor.Username,
		RequestTimestamp:   s.now(),
	}
	s.state.Requests = append(s.state.Requests, request)
	s.state.SaveRequests(ctx)

	result := &RequestResult{
		Request:          request,
		LoanedOut:        loanedOut,
		AlreadyRequested: alreadyRequested,
		Message:          "Solicitud enviada para aprobación.",
	}
	if len(loanedOut)+len(alreadyRequested) > 0 {
		result.Message = unavailableMessage(loanedOut, alreadyRequested)
	}

	s.logger.Info().
		Str("operation", op).
		Str("requester", actor.Username).
		Strs("hc_numbers", available).
		Msg("loan request submitted")
	return result, s.finish(op, nil)
}

// ApproveRequest converts a pending request into loaned records, one per
// hcNumber. Availability is re-checked: state may have moved since the
// request was submitted, and a stale request must be rejected or left
// waiting rather than silently consumed.
func (s *Service) ApproveRequest(ctx context.Context, actor *model.User, requestID uuid.UUID) ([]*model.Record, error) {
	op := "approve_request"
	if err := requireAdmin(actor); err != nil {
		return nil, s.finish(op, err)
	}

	s.state.Lock()
	defer s.state.Unlock()

	request := s.state.RequestByID(requestID)
	if request == nil {
		return nil, s.finish(op, apperrors.NotFound("request"))
	}
	if strings.EqualFold(request.RequesterName, actor.Username) {
		return nil, s.finish(op, apperrors.PermissionDenied("requests cannot be approved by their own requester"))
	}

	var conflicting []string
	for _, hc := range request.HCNumbers {
		if s.state.OutRecordExists(hc, uuid.Nil) {
			conflicting = append(conflicting, hc)
		}
	}
	if len(conflicting) > 0 {
		return nil, s.finish(op, apperrors.Conflict(
			fmt.Sprintf("clinical histories already loaned out: %s", apperrors.JoinHC(conflicting)),
			conflicting...))
	}

	now := s.now()
	created := make([]*model.Record, 0, len(request.HCNumbers))
	for _, hc := range request.HCNumbers {
		created = append(created, &model.Record{
			ID:                     uuid.New(),
			HCNumber:               hc,
			DestinationService:     request.DestinationService,
			Responsible:            request.RequesterName,
			ResponsiblePhoneNumber: phoneNotAvailable,
			RequestDate:            now,
			Status:                 model.StatusLoaned,
		})
	}
	s.state.Records = append(s.state.Records, created...)
	sort.SliceStable(s.state.Records, func(i, j int) bool {
		return s.state.Records[i].RequestDate.After(s.state.Records[j].RequestDate)
	})
	s.removeRequest(requestID)
	s.state.SaveRecords(ctx)
	s.state.SaveRequests(ctx)

	s.logger.Info().
		Str("operation", op).
		Str("approved_by", actor.Username).
		Str("requester", request.RequesterName).
		Int("records", len(created)).
		Msg("request approved")
	return created, s.finish(op, nil)
}

// RejectRequest deletes the request and notifies its requester with the
// mandatory reason.
func (s *Service) RejectRequest(ctx context.Context, actor *model.User, requestID uuid.UUID, reason string) error {
	op := "reject_request"
	if err := requireAdmin(actor); err != nil {
		return s.finish(op, err)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return s.finish(op, apperrors.Validation("a rejection reason is required"))
	}

	s.state.Lock()
	defer s.state.Unlock()

	request := s.state.RequestByID(requestID)
	if request == nil {
		return s.finish(op, apperrors.NotFound("request"))
	}

	s.notify(request.RequesterName, model.NotificationRejection,
		fmt.Sprintf("Su solicitud para H.C. %q ha sido rechazada. Motivo: %s", request.HCNumbersLabel(), reason))
	s.removeRequest(requestID)
	s.state.SaveNotifications(ctx)
	s.state.SaveRequests(ctx)

	s.logger.Info().
		Str("operation", op).
		Str("requester", request.RequesterName).
		Msg("request rejected")
	return s.finish(op, nil)
}

func (s *Service) removeRequest(id uuid.UUID) {
	kept := s.state.Requests[:0]
	for _, req := range s.state.Requests {
		if req.ID != id {
			kept = append(kept, req)
		}
	}
	s.state.Requests = kept
}

// notify appends a notification for the given user. Must be called with
// the state lock held; the caller persists the collection.
func (s *Service) notify(userID string, kind model.NotificationType, message string) {
	s.state.Notifications = append(s.state.Notifications, &model.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Message:   message,
		Timestamp: s.now(),
		Type:      kind,
	})
	s.metrics.NotificationsCreated.Inc()
}
