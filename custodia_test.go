package custodia

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hcquillabamba/custodia/config"
	"github.com/hcquillabamba/custodia/query"
	"github.com/hcquillabamba/custodia/workflow"
)

func TestOpenWiresEngineAndViews(t *testing.T) {
	ctx := context.Background()
	app, err := Open(ctx, &config.Config{
		Store:        config.StoreConfig{Driver: "memory"},
		Log:          config.LogConfig{Level: "error"},
		DefaultAdmin: config.AdminConfig{Username: "admin", Password: "admin"},
	}, prometheus.NewRegistry())
	require.NoError(t, err)
	defer app.Close()

	admin, err := app.Workflow.Login(ctx, "admin", "admin")
	require.NoError(t, err)

	_, err = app.Workflow.RegisterLoan(ctx, admin, workflow.LoanInput{
		HCNumbers:              "111",
		DestinationService:     "Pediatría",
		Responsible:            "Dr. Rojas",
		ResponsiblePhoneNumber: "987654321",
		RequestDate:            time.Now(),
	})
	require.NoError(t, err)

	records := app.Views.FilteredRecords(admin, query.RecordFilter{})
	assert.Len(t, records, 1)
}
