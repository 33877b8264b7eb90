package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dentalops/pricing-engine/internal/application/services"
	"github.com/dentalops/pricing-engine/internal/domain/entities"
	"github.com/dentalops/pricing-engine/internal/domain/repositories"
	apperrors "github.com/dentalops/pricing-engine/pkg/errors"
)

type MockServiceRepository struct {
	mock.Mock
}

func (m *MockServiceRepository) Create(ctx context.Context, service *entities.Service) error {
	args := m.Called(ctx, service)
	return args.Error(0)
}

func (m *MockServiceRepository) GetByID(ctx context.Context, clinicID, id string) (*entities.Service, error) {
	args := m.Called(ctx, clinicID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Service), args.Error(1)
}

func (m *MockServiceRepository) List(ctx context.Context, clinicID string, filter repositories.ServiceFilter) ([]*entities.Service, error) {
	args := m.Called(ctx, clinicID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Service), args.Error(1)
}

func newServiceCatalog(serviceRepo *MockServiceRepository, supplyRepo *MockSupplyRepository) *services.ServiceCatalogService {
	return services.NewServiceCatalogService(serviceRepo, services.NewSupplyCatalogService(supplyRepo, nil))
}

func TestServiceCatalogService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("persists a normalized recipe", func(t *testing.T) {
		serviceRepo := new(MockServiceRepository)
		supplyRepo := new(MockSupplyRepository)
		catalog := newServiceCatalog(serviceRepo, supplyRepo)

		supplyRepo.On("GetByIDs", mock.Anything, "clinic-1", []string{"s1", "s2"}).Return([]*entities.Supply{
			{ID: "s1", Name: "Guantes", PriceCents: 12000, Portions: 50},
			{ID: "s2", Name: "Anestesia", PriceCents: 30000, Portions: 50},
		}, nil)
		serviceRepo.On("Create", mock.Anything, mock.MatchedBy(func(s *entities.Service) bool {
			return s.Name == "Limpieza dental" &&
				s.EstimatedMinutes == 45 &&
				s.Active &&
				len(s.Recipe) == 2 &&
				s.Recipe[0].SupplyID == "s1" && s.Recipe[0].Quantity == 3 &&
				s.Recipe[1].SupplyID == "s2" && s.Recipe[1].Quantity == 1
		})).Return(nil)

		created, err := catalog.Create(ctx, "clinic-1", entities.ServiceInput{
			Name:             "  Limpieza dental ",
			EstimatedMinutes: 45,
			Recipe: []entities.RecipeLine{
				{SupplyID: "s1", Quantity: 2},
				{SupplyID: "s2", Quantity: 1},
				{SupplyID: "s1", Quantity: 1}, // merged with the first line
				{SupplyID: "s3", Quantity: 0}, // dropped
			},
		})

		assert.NoError(t, err)
		assert.Equal(t, "Limpieza dental", created.Name)
		assert.NotEmpty(t, created.ID)
		serviceRepo.AssertExpectations(t)
	})

	t.Run("discards recipe lines for vanished supplies", func(t *testing.T) {
		serviceRepo := new(MockServiceRepository)
		supplyRepo := new(MockSupplyRepository)
		catalog := newServiceCatalog(serviceRepo, supplyRepo)

		supplyRepo.On("GetByIDs", mock.Anything, "clinic-1", []string{"s1", "gone"}).Return([]*entities.Supply{
			{ID: "s1", Name: "Guantes", PriceCents: 12000, Portions: 50},
		}, nil)
		serviceRepo.On("Create", mock.Anything, mock.MatchedBy(func(s *entities.Service) bool {
			return len(s.Recipe) == 1 && s.Recipe[0].SupplyID == "s1"
		})).Return(nil)

		_, err := catalog.Create(ctx, "clinic-1", entities.ServiceInput{
			Name:             "Extraccion",
			EstimatedMinutes: 30,
			Recipe: []entities.RecipeLine{
				{SupplyID: "s1", Quantity: 2},
				{SupplyID: "gone", Quantity: 5},
			},
		})

		assert.NoError(t, err)
		serviceRepo.AssertExpectations(t)
	})

	t.Run("rejects short names and non-positive minutes", func(t *testing.T) {
		serviceRepo := new(MockServiceRepository)
		supplyRepo := new(MockSupplyRepository)
		catalog := newServiceCatalog(serviceRepo, supplyRepo)

		_, err := catalog.Create(ctx, "clinic-1", entities.ServiceInput{Name: " x ", EstimatedMinutes: 30})
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

		_, err = catalog.Create(ctx, "clinic-1", entities.ServiceInput{Name: "Limpieza", EstimatedMinutes: 0})
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

		serviceRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("allows an empty recipe", func(t *testing.T) {
		serviceRepo := new(MockServiceRepository)
		supplyRepo := new(MockSupplyRepository)
		catalog := newServiceCatalog(serviceRepo, supplyRepo)

		serviceRepo.On("Create", mock.Anything, mock.MatchedBy(func(s *entities.Service) bool {
			return len(s.Recipe) == 0
		})).Return(nil)

		_, err := catalog.Create(ctx, "clinic-1", entities.ServiceInput{
			Name:             "Consulta",
			EstimatedMinutes: 20,
		})

		assert.NoError(t, err)
		supplyRepo.AssertNotCalled(t, "GetByIDs", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestServiceCatalogService_List_RecomputesVariableCost(t *testing.T) {
	ctx := context.Background()
	serviceRepo := new(MockServiceRepository)
	supplyRepo := new(MockSupplyRepository)
	catalog := newServiceCatalog(serviceRepo, supplyRepo)

	stored := []*entities.Service{
		{
			ID: "svc-1", Name: "Limpieza", EstimatedMinutes: 45, Active: true,
			Recipe: []entities.RecipeLine{
				{SupplyID: "s1", Quantity: 3, SupplyName: "Guantes", CostPerPortionCents: 240},
				{SupplyID: "s2", Quantity: 1, SupplyName: "Anestesia", CostPerPortionCents: 600},
			},
		},
	}
	serviceRepo.On("List", mock.Anything, "clinic-1", repositories.ServiceFilter{}).Return(stored, nil)

	services, err := catalog.List(ctx, "clinic-1", repositories.ServiceFilter{})

	assert.NoError(t, err)
	assert.Len(t, services, 1)
	assert.Equal(t, int64(3*240+600), services[0].VariableCostCents)
}
