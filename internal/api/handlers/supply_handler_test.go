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
	"github.com/dentalops/pricing-engine/internal/domain/repositories"
	apperrors "github.com/dentalops/pricing-engine/pkg/errors"
)

type MockSupplyRepository struct {
	mock.Mock
}

func (m *MockSupplyRepository) List(ctx context.Context, clinicID string, filter repositories.SupplyFilter) ([]*entities.Supply, error) {
	args := m.Called(ctx, clinicID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Supply), args.Error(1)
}

func (m *MockSupplyRepository) GetByIDs(ctx context.Context, clinicID string, ids []string) ([]*entities.Supply, error) {
	args := m.Called(ctx, clinicID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Supply), args.Error(1)
}

func (m *MockSupplyRepository) Create(ctx context.Context, supply *entities.Supply) error {
	args := m.Called(ctx, supply)
	return args.Error(0)
}

func (m *MockSupplyRepository) Delete(ctx context.Context, clinicID, id string) error {
	args := m.Called(ctx, clinicID, id)
	return args.Error(0)
}

func newSupplyHandler(repo *MockSupplyRepository) *handlers.SupplyHandler {
	return handlers.NewSupplyHandler(services.NewSupplyCatalogService(repo, nil))
}

func TestSupplyHandler_ListSupplies_DeduplicatesByName(t *testing.T) {
	repo := new(MockSupplyRepository)
	repo.On("List", mock.Anything, handlers.DefaultClinicID, mock.Anything).Return([]*entities.Supply{
		{ID: "s1", Name: "Guantes", PriceCents: 12000, Portions: 100},
		{ID: "s2", Name: "guantes", PriceCents: 15000, Portions: 100},
		{ID: "s3", Name: "Anestesia", PriceCents: 24000, Portions: 10},
	}, nil)

	req := httptest.NewRequest("GET", "/api/supplies", nil)
	w := httptest.NewRecorder()
	newSupplyHandler(repo).ListSupplies(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Supplies []*entities.Supply `json:"supplies"`
		Count    int                `json:"count"`
	}
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, 2, response.Count)
	assert.Equal(t, "s1", response.Supplies[0].ID)
}

func TestSupplyHandler_ListSupplies_ScopesToHeaderClinic(t *testing.T) {
	repo := new(MockSupplyRepository)
	repo.On("List", mock.Anything, "clinic-7", mock.Anything).Return([]*entities.Supply{}, nil)

	req := httptest.NewRequest("GET", "/api/supplies", nil)
	req.Header.Set("X-Clinic-ID", "clinic-7")
	w := httptest.NewRecorder()
	newSupplyHandler(repo).ListSupplies(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	repo.AssertExpectations(t)
}

func TestSupplyHandler_CreateSupply_New(t *testing.T) {
	repo := new(MockSupplyRepository)
	repo.On("List", mock.Anything, handlers.DefaultClinicID, mock.Anything).Return([]*entities.Supply{}, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	body := `{"name":"Resina","presentation":"jeringa 4g","price_pesos":320,"portions":8}`
	req := httptest.NewRequest("POST", "/api/supplies", strings.NewReader(body))
	w := httptest.NewRecorder()
	newSupplyHandler(repo).CreateSupply(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var supply entities.Supply
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&supply))
	assert.Equal(t, "Resina", supply.Name)
	assert.Equal(t, int64(32000), supply.PriceCents)
}

func TestSupplyHandler_CreateSupply_ReusesExisting(t *testing.T) {
	repo := new(MockSupplyRepository)
	repo.On("List", mock.Anything, handlers.DefaultClinicID, mock.Anything).Return([]*entities.Supply{
		{ID: "s1", Name: "Resina", PriceCents: 30000, Portions: 8},
	}, nil)

	body := `{"name":"  resina ","price_pesos":999,"portions":8}`
	req := httptest.NewRequest("POST", "/api/supplies", strings.NewReader(body))
	w := httptest.NewRecorder()
	newSupplyHandler(repo).CreateSupply(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var supply entities.Supply
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&supply))
	assert.Equal(t, "s1", supply.ID)
	assert.Equal(t, int64(30000), supply.PriceCents)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSupplyHandler_CreateSupply_ValidationError(t *testing.T) {
	repo := new(MockSupplyRepository)

	body := `{"name":"","price_pesos":10,"portions":1}`
	req := httptest.NewRequest("POST", "/api/supplies", strings.NewReader(body))
	w := httptest.NewRecorder()
	newSupplyHandler(repo).CreateSupply(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSupplyHandler_CreateSupply_MalformedJSON(t *testing.T) {
	repo := new(MockSupplyRepository)

	req := httptest.NewRequest("POST", "/api/supplies", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	newSupplyHandler(repo).CreateSupply(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSupplyHandler_DeleteSupply(t *testing.T) {
	repo := new(MockSupplyRepository)
	repo.On("Delete", mock.Anything, handlers.DefaultClinicID, "s1").Return(nil)

	req := httptest.NewRequest("DELETE", "/api/supplies/s1", nil)
	req.SetPathValue("id", "s1")
	w := httptest.NewRecorder()
	newSupplyHandler(repo).DeleteSupply(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	repo.AssertExpectations(t)
}

func TestSupplyHandler_DeleteSupply_StillReferenced(t *testing.T) {
	repo := new(MockSupplyRepository)
	repo.On("Delete", mock.Anything, handlers.DefaultClinicID, "s1").
		Return(apperrors.NewConflictError("supply is used by existing services"))

	req := httptest.NewRequest("DELETE", "/api/supplies/s1", nil)
	req.SetPathValue("id", "s1")
	w := httptest.NewRecorder()
	newSupplyHandler(repo).DeleteSupply(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}
