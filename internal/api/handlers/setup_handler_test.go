package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dentalops/pricing-engine/internal/api/handlers"
	"github.com/dentalops/pricing-engine/internal/application/services"
	"github.com/dentalops/pricing-engine/internal/domain/entities"
	"github.com/dentalops/pricing-engine/internal/domain/pricing"
	apperrors "github.com/dentalops/pricing-engine/pkg/errors"
)

type MockTimeSettingsRepository struct {
	mock.Mock
}

func (m *MockTimeSettingsRepository) Get(ctx context.Context, clinicID string) (*entities.TimeConfiguration, error) {
	args := m.Called(ctx, clinicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TimeConfiguration), args.Error(1)
}

func (m *MockTimeSettingsRepository) Upsert(ctx context.Context, cfg *entities.TimeConfiguration) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

type MockFixedCostRepository struct {
	mock.Mock
}

func (m *MockFixedCostRepository) Create(ctx context.Context, line *entities.FixedCostLine) error {
	args := m.Called(ctx, line)
	return args.Error(0)
}

func (m *MockFixedCostRepository) List(ctx context.Context, clinicID string) ([]*entities.FixedCostLine, error) {
	args := m.Called(ctx, clinicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.FixedCostLine), args.Error(1)
}

func (m *MockFixedCostRepository) Summary(ctx context.Context, clinicID string) (entities.FixedCostSummary, error) {
	args := m.Called(ctx, clinicID)
	return args.Get(0).(entities.FixedCostSummary), args.Error(1)
}

type MockAssetRepository struct {
	mock.Mock
}

func (m *MockAssetRepository) Create(ctx context.Context, asset *entities.Asset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

func (m *MockAssetRepository) Summary(ctx context.Context, clinicID string) (entities.AssetSummary, error) {
	args := m.Called(ctx, clinicID)
	return args.Get(0).(entities.AssetSummary), args.Error(1)
}

func newSetupHandler(timeRepo *MockTimeSettingsRepository, costRepo *MockFixedCostRepository, assetRepo *MockAssetRepository) *handlers.SetupHandler {
	return handlers.NewSetupHandler(services.NewSetupGateService(timeRepo, costRepo, assetRepo))
}

func TestSetupHandler_GetStatus_FreshClinic(t *testing.T) {
	timeRepo := new(MockTimeSettingsRepository)
	costRepo := new(MockFixedCostRepository)
	assetRepo := new(MockAssetRepository)

	timeRepo.On("Get", mock.Anything, handlers.DefaultClinicID).
		Return(nil, apperrors.NewNotFoundError("time configuration not found"))
	costRepo.On("Summary", mock.Anything, handlers.DefaultClinicID).
		Return(entities.FixedCostSummary{}, nil)
	assetRepo.On("Summary", mock.Anything, handlers.DefaultClinicID).
		Return(entities.AssetSummary{}, nil)

	req := httptest.NewRequest("GET", "/api/setup/status", nil)
	w := httptest.NewRecorder()
	newSetupHandler(timeRepo, costRepo, assetRepo).GetStatus(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var status entities.SetupStatus
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&status))
	assert.False(t, status.HasTimeConfig)
	assert.False(t, status.HasFixedCosts)
	assert.False(t, status.HasAssets)
}

func TestSetupHandler_GetCostPerMinute_Configured(t *testing.T) {
	timeRepo := new(MockTimeSettingsRepository)
	costRepo := new(MockFixedCostRepository)
	assetRepo := new(MockAssetRepository)

	timeRepo.On("Get", mock.Anything, handlers.DefaultClinicID).Return(&entities.TimeConfiguration{
		ClinicID:            handlers.DefaultClinicID,
		WorkDaysPerMonth:    20,
		HoursPerDay:         11,
		RealProductivityPct: 70,
	}, nil)
	costRepo.On("Summary", mock.Anything, handlers.DefaultClinicID).
		Return(entities.FixedCostSummary{TotalMonthlyCents: 900000, Lines: 3}, nil)
	assetRepo.On("Summary", mock.Anything, handlers.DefaultClinicID).
		Return(entities.AssetSummary{MonthlyDepreciationCents: 24000, Count: 2}, nil)

	req := httptest.NewRequest("GET", "/api/time/cost-per-minute", nil)
	w := httptest.NewRecorder()
	newSetupHandler(timeRepo, costRepo, assetRepo).GetCostPerMinute(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var cost pricing.TimeCost
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&cost))
	assert.Equal(t, 9240, cost.EffectiveMinutesPerMonth)
	assert.Equal(t, int64(924000), cost.MonthlyFixedCents)
	assert.Equal(t, int64(100), cost.PerMinuteCents)
	assert.False(t, cost.NeedsTimeHard)
	assert.False(t, cost.NeedsFixedCosts)
}

func TestSetupHandler_GetCostPerMinute_MissingTimeConfigIsNotAnError(t *testing.T) {
	timeRepo := new(MockTimeSettingsRepository)
	costRepo := new(MockFixedCostRepository)
	assetRepo := new(MockAssetRepository)

	timeRepo.On("Get", mock.Anything, handlers.DefaultClinicID).
		Return(nil, apperrors.NewNotFoundError("time configuration not found"))
	costRepo.On("Summary", mock.Anything, handlers.DefaultClinicID).
		Return(entities.FixedCostSummary{}, nil)
	assetRepo.On("Summary", mock.Anything, handlers.DefaultClinicID).
		Return(entities.AssetSummary{}, nil)

	req := httptest.NewRequest("GET", "/api/time/cost-per-minute", nil)
	w := httptest.NewRecorder()
	newSetupHandler(timeRepo, costRepo, assetRepo).GetCostPerMinute(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var cost pricing.TimeCost
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&cost))
	assert.True(t, cost.NeedsTimeHard)
	assert.Zero(t, cost.PerMinuteCents)
}

func TestTimeSettingsHandler_PutSettings(t *testing.T) {
	timeRepo := new(MockTimeSettingsRepository)
	timeRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	handler := handlers.NewTimeSettingsHandler(services.NewTimeSettingsService(timeRepo))

	body := `{"work_days_per_month":20,"hours_per_day":8,"real_productivity_pct":70}`
	req := httptest.NewRequest("PUT", "/api/settings/time", strings.NewReader(body))
	w := httptest.NewRecorder()
	handler.PutSettings(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var cfg entities.TimeConfiguration
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&cfg))
	assert.Equal(t, 20, cfg.WorkDaysPerMonth)
	timeRepo.AssertExpectations(t)
}

func TestTimeSettingsHandler_PutSettings_OutOfRange(t *testing.T) {
	timeRepo := new(MockTimeSettingsRepository)
	handler := handlers.NewTimeSettingsHandler(services.NewTimeSettingsService(timeRepo))

	body := `{"work_days_per_month":40,"hours_per_day":8,"real_productivity_pct":70}`
	req := httptest.NewRequest("PUT", "/api/settings/time", strings.NewReader(body))
	w := httptest.NewRecorder()
	handler.PutSettings(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	timeRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestTimeSettingsHandler_GetSettings_NotFound(t *testing.T) {
	timeRepo := new(MockTimeSettingsRepository)
	timeRepo.On("Get", mock.Anything, handlers.DefaultClinicID).
		Return(nil, apperrors.NewNotFoundError("time configuration not found"))
	handler := handlers.NewTimeSettingsHandler(services.NewTimeSettingsService(timeRepo))

	req := httptest.NewRequest("GET", "/api/settings/time", nil)
	w := httptest.NewRecorder()
	handler.GetSettings(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFixedCostHandler_CreateAndList(t *testing.T) {
	costRepo := new(MockFixedCostRepository)
	costRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	costRepo.On("List", mock.Anything, handlers.DefaultClinicID).Return([]*entities.FixedCostLine{
		{ID: "f1", Category: "rent", Concept: "Consultorio", AmountCents: 1500000},
	}, nil)
	costRepo.On("Summary", mock.Anything, handlers.DefaultClinicID).
		Return(entities.FixedCostSummary{TotalMonthlyCents: 1500000, Lines: 1}, nil)
	handler := handlers.NewFixedCostHandler(services.NewFixedCostService(costRepo))

	body := `{"category":"rent","concept":"Consultorio","amount_pesos":15000}`
	req := httptest.NewRequest("POST", "/api/fixed-costs", strings.NewReader(body))
	w := httptest.NewRecorder()
	handler.CreateFixedCost(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var line entities.FixedCostLine
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&line))
	assert.Equal(t, int64(1500000), line.AmountCents)

	req = httptest.NewRequest("GET", "/api/fixed-costs", nil)
	w = httptest.NewRecorder()
	handler.ListFixedCosts(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Lines             []*entities.FixedCostLine `json:"lines"`
		TotalMonthlyCents int64                     `json:"total_monthly_cents"`
		Count             int                       `json:"count"`
	}
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, int64(1500000), response.TotalMonthlyCents)
	assert.Equal(t, 1, response.Count)
}

func TestAssetHandler_CaptureAssets(t *testing.T) {
	assetRepo := new(MockAssetRepository)
	costRepo := new(MockFixedCostRepository)
	assetRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	handler := handlers.NewAssetHandler(services.NewAssetCaptureService(assetRepo, costRepo))

	body := `[{"name":"Autoclave","purchase_price_pesos":24000,"depreciation_months":60}]`
	req := httptest.NewRequest("POST", "/api/assets", strings.NewReader(body))
	w := httptest.NewRecorder()
	handler.CaptureAssets(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]int
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, 1, response["saved"])
}
