package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hcquillabamba/custodia/model"
	apperrors "github.com/hcquillabamba/custodia/pkg/errors"
)

// ReturnInput confirms a physical return. Both fields are mandatory.
type ReturnInput struct {
	ReturnDate         time.Time `validate:"required"`
	ReceivingStaffName string    `validate:"required"`
}

// RequestReturn flips a loaned record of the guest's own service to
// pending-return and notifies every administrator. No return fields are
// touched yet; the admin confirms reception separately.
func (s *Service) RequestReturn(ctx context.Context, actor *model.User, recordID uuid.UUID) error {
	op := "request_return"
	if err := requireServiceGuest(actor); err != nil {
		return s.finish(op, err)
	}

	s.state.Lock()
	defer s.state.Unlock()

	rec := s.state.RecordByID(recordID)
	if rec == nil {
		return s.finish(op, apperrors.NotFound("record"))
	}
	if !strings.EqualFold(rec.DestinationService, actor.Service) {
		return s.finish(op, apperrors.PermissionDenied("record belongs to another service"))
	}
	if rec.Status != model.StatusLoaned {
		return s.finish(op, apperrors.Conflict(
			fmt.Sprintf("record for clinical history %s is not currently loaned", rec.HCNumber), rec.HCNumber))
	}

	rec.Status = model.StatusPendingReturn
	for i := range s.state.Users {
		if s.state.Users[i].IsAdmin() {
			s.notify(s.state.Users[i].Username, model.NotificationApproval,
				fmt.Sprintf("El servicio %q ha solicitado la devolución de la H.C. N° %s. Por favor, confirme la recepción.",
					rec.DestinationService, rec.HCNumber))
		}
	}
	s.state.SaveRecords(ctx)
	s.state.SaveNotifications(ctx)

	s.logger.Info().
		Str("operation", op).
		Str("hc_number", rec.HCNumber).
		Str("service", rec.DestinationService).
		Msg("return requested")
	return s.finish(op, nil)
}

// ConfirmReturn marks the record returned with the supplied reception
// data. Admins may confirm a pending return or directly return any
// record through this same path.
func (s *Service) ConfirmReturn(ctx context.Context, actor *model.User, recordID uuid.UUID, in ReturnInput) error {
	op := "confirm_return"
	if err := requireAdmin(actor); err != nil {
		return s.finish(op, err)
	}
	in.ReceivingStaffName = strings.TrimSpace(in.ReceivingStaffName)
	if err := s.validateInput(in); err != nil {
		return s.finish(op, err)
	}

	s.state.Lock()
	defer s.state.Unlock()

	rec := s.state.RecordByID(recordID)
	if rec == nil {
		return s.finish(op, apperrors.NotFound("record"))
	}

	returnDate := in.ReturnDate
	rec.Status = model.StatusReturned
	rec.ReturnDate = &returnDate
	rec.ReceivingStaffName = in.ReceivingStaffName
	s.state.SaveRecords(ctx)

	s.logger.Info().
		Str("operation", op).
		Str("hc_number", rec.HCNumber).
		Str("received_by", in.ReceivingStaffName).
		Msg("return confirmed")
	return s.finish(op, nil)
}
