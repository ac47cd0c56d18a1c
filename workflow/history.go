package workflow

import (
	"context"
	"strings"

	"github.com/hcquillabamba/custodia/model"
	apperrors "github.com/hcquillabamba/custodia/pkg/errors"
)

// SaveClinicalDetails upserts the free-text background of an hcNumber.
// Details live independently of loan cycles.
func (s *Service) SaveClinicalDetails(ctx context.Context, actor *model.User, hcNumber string, details model.ClinicalDetails) error {
	op := "save_clinical_details"
	if err := requireAdmin(actor); err != nil {
		return s.finish(op, err)
	}
	hcNumber = strings.TrimSpace(hcNumber)
	if hcNumber == "" {
		return s.finish(op, apperrors.Validation("a clinical history number is required"))
	}

	s.state.Lock()
	defer s.state.Unlock()

	s.state.Details[hcNumber] = details
	s.state.SaveDetails(ctx)
	return s.finish(op, nil)
}

// DeleteHistory irreversibly removes every record sharing the hcNumber,
// across all loan cycles, together with its clinical details. The
// boundary must pass confirmed=true; there is no undo.
func (s *Service) DeleteHistory(ctx context.Context, actor *model.User, hcNumber string, confirmed bool) error {
	op := "delete_history"
	if err := requireAdmin(actor); err != nil {
		return s.finish(op, err)
	}
	hcNumber = strings.TrimSpace(hcNumber)
	if hcNumber == "" {
		return s.finish(op, apperrors.Validation("a clinical history number is required"))
	}
	if !confirmed {
		return s.finish(op, apperrors.Validation("full-history deletion requires explicit confirmation"))
	}

	s.state.Lock()
	defer s.state.Unlock()

	kept := s.state.Records[:0]
	removed := 0
	for _, rec := range s.state.Records {
		if rec.HCNumber == hcNumber {
			removed++
			continue
		}
		kept = append(kept, rec)
	}
	s.state.Records = kept
	delete(s.state.Details, hcNumber)

	s.state.SaveRecords(ctx)
	s.state.SaveDetails(ctx)

	s.logger.Info().
		Str("operation", op).
		Str("hc_number", hcNumber).
		Int("records_removed", removed).
		Msg("full history deleted")
	return s.finish(op, nil)
}
