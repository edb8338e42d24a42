package application

import (
	"context"
	"strings"

	"github.com/loc8r/loc8r-services/api/internal/locations/domain"
)

// locationQueryService is the concrete implementation of LocationQueryService.
type locationQueryService struct {
	repo LocationRepository
}

// NewLocationQueryService creates a new location query service.
func NewLocationQueryService(repo LocationRepository) LocationQueryService {
	return &locationQueryService{repo: repo}
}

func (s *locationQueryService) Near(ctx context.Context, query NearQuery) ([]LocationDistance, error) {
	return s.repo.FindNear(ctx, query)
}

func (s *locationQueryService) Detail(ctx context.Context, id string) (*domain.Location, error) {
	return s.repo.FindByID(ctx, id)
}

type locationCommandService struct {
	repo LocationRepository
}

// NewLocationCommandService creates a new location command service.
func NewLocationCommandService(repo LocationRepository) LocationCommandService {
	return &locationCommandService{repo: repo}
}

func (s *locationCommandService) Create(ctx context.Context, cmd CreateLocationCommand) (*domain.Location, domain.FieldErrors, error) {
	errs := domain.FieldErrors{}

	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		errs["name"] = "name is required"
	}
	if cmd.Lng < -180 || cmd.Lng > 180 {
		errs["lng"] = "lng must be within -180 and 180"
	}
	if cmd.Lat < -90 || cmd.Lat > 90 {
		errs["lat"] = "lat must be within -90 and 90"
	}
	if len(errs) > 0 {
		return nil, errs, nil
	}

	location := &domain.Location{
		Name:         name,
		Address:      strings.TrimSpace(cmd.Address),
		Facilities:   append([]string{}, cmd.Facilities...),
		Coords:       domain.Coordinates{Lng: cmd.Lng, Lat: cmd.Lat},
		OpeningTimes: append([]domain.OpeningTime{}, cmd.OpeningTimes...),
	}
	if err := s.repo.Create(ctx, location); err != nil {
		return nil, nil, err
	}
	return location, nil, nil
}
