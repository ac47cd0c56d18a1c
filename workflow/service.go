// Package workflow implements the request/approval/transfer state
// machine governing how clinical history folders move between services.
// Every operation validates against current state, applies its full set
// of collection mutations under the state lock, and mirrors the touched
// collections to the snapshot store before returning.
package workflow

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	apperrors "github.com/hcquillabamba/custodia/pkg/errors"
	"github.com/hcquillabamba/custodia/pkg/metrics"
	"github.com/hcquillabamba/custodia/session"
	"github.com/hcquillabamba/custodia/state"
)

// Sentinel responsible value for records created from approvals and
// transfer acceptances, where no phone number is captured.
const phoneNotAvailable = "N/A"

type Service struct {
	state    *state.State
	sessions *session.Store
	validate *validator.Validate
	metrics  *metrics.Metrics
	logger   zerolog.Logger

	now func() time.Time
}

func NewService(st *state.State, sessions *session.Store, m *metrics.Metrics, logger zerolog.Logger) *Service {
	return &Service{
		state:    st,
		sessions: sessions,
		validate: validator.New(),
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// finish records the operation outcome and passes the error through.
func (s *Service) finish(op string, err error) error {
	outcome := metrics.OutcomeOK
	if err != nil {
		switch apperrors.CodeOf(err) {
		case apperrors.ErrConflict:
			outcome = metrics.OutcomeConflict
			s.metrics.Conflicts.Inc()
		case apperrors.ErrPermissionDenied, apperrors.ErrUnauthorized:
			outcome = metrics.OutcomeDenied
		case apperrors.ErrNotFound:
			outcome = metrics.OutcomeMissing
		default:
			outcome = metrics.OutcomeInvalid
		}
	}
	s.metrics.Operations.WithLabelValues(op, outcome).Inc()
	return err
}

func (s *Service) validateInput(in interface{}) error {
	if err := s.validate.Struct(in); err != nil {
		return apperrors.Validation(err.Error())
	}
	return nil
}
