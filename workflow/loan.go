package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hcquillabamba/custodia/model"
	apperrors "github.com/hcquillabamba/custodia/pkg/errors"
)

// LoanInput registers one or more direct loans. HCNumbers is the raw
// comma-separated list as typed; duplicates are honored and produce
// duplicate records.
type LoanInput struct {
	HCNumbers              string    `validate:"required"`
	DestinationService     string    `validate:"required"`
	Responsible            string    `validate:"required"`
	ResponsiblePhoneNumber string    `validate:"required"`
	RequestDate            time.Time `validate:"required"`
}

// LoanUpdateInput edits a single existing record in place.
type LoanUpdateInput struct {
	HCNumber               string    `validate:"required"`
	DestinationService     string    `validate:"required"`
	Responsible            string    `validate:"required"`
	ResponsiblePhoneNumber string    `validate:"required"`
	RequestDate            time.Time `validate:"required"`
}

// RegisterLoan creates one loaned record per listed hcNumber, all
// fields copied from the input. Fails whole when any listed number is
// already out; no partial effect.
func (s *Service) RegisterLoan(ctx context.Context, actor *model.User, in LoanInput) ([]*model.Record, error) {
	op := "register_loan"
	if err := requireAdmin(actor); err != nil {
		return nil, s.finish(op, err)
	}
	if err := s.validateInput(in); err != nil {
		return nil, s.finish(op, err)
	}

	hcNumbers := model.ParseHCNumbers(in.HCNumbers)
	if len(hcNumbers) == 0 {
		return nil, s.finish(op, apperrors.Validation("at least one clinical history number is required"))
	}

	s.state.Lock()
	defer s.state.Unlock()

	var conflicting []string
	for _, hc := range model.DedupeHCNumbers(hcNumbers) {
		if s.state.OutRecordExists(hc, uuid.Nil) {
			conflicting = append(conflicting, hc)
		}
	}
	if len(conflicting) > 0 {
		return nil, s.finish(op, apperrors.Conflict(
			fmt.Sprintf("clinical histories already loaned out: %s", apperrors.JoinHC(conflicting)),
			conflicting...))
	}

	created := make([]*model.Record, 0, len(hcNumbers))
	for _, hc := range hcNumbers {
		created = append(created, &model.Record{
			ID:                     uuid.New(),
			HCNumber:               hc,
			DestinationService:     in.DestinationService,
			Responsible:            in.Responsible,
			ResponsiblePhoneNumber: in.ResponsiblePhoneNumber,
			RequestDate:            in.RequestDate,
			Status:                 model.StatusLoaned,
		})
	}
	s.state.Records = append(s.state.Records, created...)
	s.state.SaveRecords(ctx)

	s.logger.Info().
		Str("operation", op).
		Str("service", in.DestinationService).
		Int("records", len(created)).
		Msg("loan registered")
	return created, s.finish(op, nil)
}

// UpdateLoan edits the identified record's loan fields, preserving its
// id, status, return date and receiving staff.
func (s *Service) UpdateLoan(ctx context.Context, actor *model.User, id uuid.UUID, in LoanUpdateInput) (*model.Record, error) {
	op := "update_loan"
	if err := requireAdmin(actor); err != nil {
		return nil, s.finish(op, err)
	}
	if err := s.validateInput(in); err != nil {
		return nil, s.finish(op, err)
	}

	s.state.Lock()
	defer s.state.Unlock()

	rec := s.state.RecordByID(id)
	if rec == nil {
		return nil, s.finish(op, apperrors.NotFound("record"))
	}
	if s.state.OutRecordExists(in.HCNumber, id) {
		return nil, s.finish(op, apperrors.Conflict(
			fmt.Sprintf("clinical histories already loaned out: %s", in.HCNumber),
			in.HCNumber))
	}

	rec.HCNumber = in.HCNumber
	rec.DestinationService = in.DestinationService
	rec.Responsible = in.Responsible
	rec.ResponsiblePhoneNumber = in.ResponsiblePhoneNumber
	rec.RequestDate = in.RequestDate
	s.state.SaveRecords(ctx)

	return rec, s.finish(op, nil)
}
