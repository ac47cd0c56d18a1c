package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hcquillabamba/custodia/model"
	apperrors "github.com/hcquillabamba/custodia/pkg/errors"
)

// RequestTransfer opens a custody move of a loaned record from the
// guest's own service to another one. The record stays loaned until the
// destination service accepts.
func (s *Service) RequestTransfer(ctx context.Context, actor *model.User, recordID uuid.UUID, toService string) (*model.PendingTransfer, error) {
	op := "request_transfer"
	if err := requireServiceGuest(actor); err != nil {
		return nil, s.finish(op, err)
	}
	toService = strings.TrimSpace(toService)
	if toService == "" {
		return nil, s.finish(op, apperrors.Validation("a destination service is required"))
	}

	s.state.Lock()
	defer s.state.Unlock()

	rec := s.state.RecordByID(recordID)
	if rec == nil {
		return nil, s.finish(op, apperrors.NotFound("record"))
	}
	if !strings.EqualFold(rec.DestinationService, actor.Service) {
		return nil, s.finish(op, apperrors.PermissionDenied("record belongs to another service"))
	}
	if strings.EqualFold(toService, rec.DestinationService) {
		return nil, s.finish(op, apperrors.Validation("destination service must differ from the current one"))
	}
	if rec.Status != model.StatusLoaned {
		return nil, s.finish(op, apperrors.Conflict(
			fmt.Sprintf("record for clinical history %s is not currently loaned", rec.HCNumber), rec.HCNumber))
	}
	if s.state.TransferPendingForRecord(rec.ID) {
		return nil, s.finish(op, apperrors.Conflict(
			fmt.Sprintf("record for clinical history %s already has a pending transfer", rec.HCNumber), rec.HCNumber))
	}

	transfer := &model.PendingTransfer{
		ID:               uuid.New(),
		RecordID:         rec.ID,
		HCNumber:         rec.HCNumber,
		FromService:      rec.DestinationService,
		ToService:        toService,
		RequesterName:    actor.Username,
		RequestTimestamp: s.now(),
	}
	s.state.Transfers = append(s.state.Transfers, transfer)
	s.state.SaveTransfers(ctx)

	s.logger.Info().
		Str("operation", op).
		Str("hc_number", rec.HCNumber).
		Str("from", transfer.FromService).
		Str("to", transfer.ToService).
		Msg("transfer requested")
	return transfer, s.finish(op, nil)
}

// AcceptTransfer closes the move: the source record becomes transferred
// with a sentinel receiving-staff value, a fresh loaned record is
// created for the destination service in the accepting user's name, and
// the original requester is notified.
func (s *Service) AcceptTransfer(ctx context.Context, actor *model.User, transferID uuid.UUID) (*model.Record, error) {
	op := "accept_transfer"
	if err := requireServiceGuest(actor); err != nil {
		return nil, s.finish(op, err)
	}

	s.state.Lock()
	defer s.state.Unlock()

	transfer := s.state.TransferByID(transferID)
	if transfer == nil {
		return nil, s.finish(op, apperrors.NotFound("transfer"))
	}
	if !strings.EqualFold(transfer.ToService, actor.Service) {
		return nil, s.finish(op, apperrors.PermissionDenied("transfer is addressed to another service"))
	}
	source := s.state.RecordByID(transfer.RecordID)
	if source == nil {
		return nil, s.finish(op, apperrors.NotFound("record"))
	}
	if !source.IsOut() {
		return nil, s.finish(op, apperrors.Conflict(
			fmt.Sprintf("record for clinical history %s is no longer loaned out", transfer.HCNumber), transfer.HCNumber))
	}

	now := s.now()
	source.Status = model.StatusTransferred
	source.ReturnDate = &now
	source.ReceivingStaffName = fmt.Sprintf("Transferido a %s", transfer.ToService)

	created := &model.Record{
		ID:                     uuid.New(),
		HCNumber:               transfer.HCNumber,
		DestinationService:     transfer.ToService,
		Responsible:            actor.Username,
		ResponsiblePhoneNumber: phoneNotAvailable,
		RequestDate:            now,
		Status:                 model.StatusLoaned,
	}
	s.state.Records = append(s.state.Records, created)
	s.removeTransfer(transferID)
	s.notify(transfer.RequesterName, model.NotificationApproval,
		fmt.Sprintf("La transferencia de H.C. %q a %s fue aceptada.", transfer.HCNumber, transfer.ToService))
	s.state.SaveRecords(ctx)
	s.state.SaveTransfers(ctx)
	s.state.SaveNotifications(ctx)

	s.logger.Info().
		Str("operation", op).
		Str("hc_number", transfer.HCNumber).
		Str("to", transfer.ToService).
		Str("accepted_by", actor.Username).
		Msg("transfer accepted")
	return created, s.finish(op, nil)
}

// RejectTransfer discards the pending move and notifies its requester.
// The record is left untouched.
func (s *Service) RejectTransfer(ctx context.Context, actor *model.User, transferID uuid.UUID) error {
	op := "reject_transfer"
	if err := requireServiceGuest(actor); err != nil {
		return s.finish(op, err)
	}

	s.state.Lock()
	defer s.state.Unlock()

	transfer := s.state.TransferByID(transferID)
	if transfer == nil {
		return s.finish(op, apperrors.NotFound("transfer"))
	}
	if !strings.EqualFold(transfer.ToService, actor.Service) {
		return s.finish(op, apperrors.PermissionDenied("transfer is addressed to another service"))
	}

	s.notify(transfer.RequesterName, model.NotificationRejection,
		fmt.Sprintf("La transferencia de H.C. %q a %s fue rechazada.", transfer.HCNumber, transfer.ToService))
	s.removeTransfer(transferID)
	s.state.SaveTransfers(ctx)
	s.state.SaveNotifications(ctx)

	s.logger.Info().
		Str("operation", op).
		Str("hc_number", transfer.HCNumber).
		Msg("transfer rejected")
	return s.finish(op, nil)
}

func (s *Service) removeTransfer(id uuid.UUID) {
	kept := s.state.Transfers[:0]
	for _, tr := range s.state.Transfers {
		if tr.ID != id {
			kept = append(kept, tr)
		}
	}
	s.state.Transfers = kept
}
