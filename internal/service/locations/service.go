package locations

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/DDC-BookingService/internal/domain"
	locationRepo "github.com/m04kA/DDC-BookingService/internal/infra/storage/location"
)

// Service сервис площадок
type Service struct {
	locationRepo LocationRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса площадок
func NewService(locationRepo LocationRepository, logger Logger) *Service {
	return &Service{
		locationRepo: locationRepo,
		logger:       logger,
	}
}

// Create создает площадку
func (s *Service) Create(ctx context.Context, location *domain.Location) (*domain.Location, error) {
	if !location.IsValid() {
		return nil, fmt.Errorf("%w: location fails validation", ErrInvalidInput)
	}

	created, err := s.locationRepo.Create(ctx, location)
	if err != nil {
		s.logger.Error("Create: failed to create location %q: %v", location.Name, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: location id=%d %q created, capacity=%d", created.ID, created.Name, created.Capacity)
	return created, nil
}

// GetByID получает площадку по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Location, error) {
	location, err := s.locationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, locationRepo.ErrLocationNotFound) {
			return nil, ErrLocationNotFound
		}
		s.logger.Error("GetByID: repository error for location=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}
	return location, nil
}

// List возвращает все площадки
func (s *Service) List(ctx context.Context) ([]*domain.Location, error) {
	result, err := s.locationRepo.List(ctx)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}
	return result, nil
}
