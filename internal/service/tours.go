package service

import (
	"context"
	"strings"
	"unicode"

	"github.com/wandero/tourbook/internal/errs"
	"github.com/wandero/tourbook/internal/model"
	"github.com/wandero/tourbook/internal/repository"
	"github.com/wandero/tourbook/internal/server"
)

const milesPerKilometer = 0.621371

// TourService implements the tour reads that plain CRUD cannot express
// and the write-side derivations (slug from name).
type TourService struct {
	server *server.Server
	repos  *repository.Repositories
}

// NewTourService constructs the tour service.
func NewTourService(s *server.Server, repos *repository.Repositories) *TourService {
	return &TourService{
		server: s,
		repos:  repos,
	}
}

// Stats returns rating and price aggregates per difficulty.
func (t *TourService) Stats(ctx context.Context) ([]model.TourStats, error) {
	return t.repos.Tours.Stats(ctx)
}

// MonthlyPlan returns tour starts per month of a year, busiest first.
func (t *TourService) MonthlyPlan(ctx context.Context, year int) ([]model.MonthlyPlanEntry, error) {
	if year < 1000 || year > 9999 {
		return nil, errs.NewBadRequestError("Please provide a four-digit year.", "INVALID_YEAR", nil)
	}
	return t.repos.Tours.MonthlyPlan(ctx, year)
}

// Within returns tours starting inside the given radius around a point.
// Unit is "km" or "mi".
func (t *TourService) Within(ctx context.Context, distance, lat, lng float64, unit string) ([]*model.Tour, error) {
	var radiusKm float64
	switch unit {
	case "km":
		radiusKm = distance
	case "mi":
		radiusKm = distance / milesPerKilometer
	default:
		return nil, errs.NewBadRequestError("Unit must be either mi or km.", "INVALID_UNIT", nil)
	}

	if distance <= 0 {
		return nil, errs.NewBadRequestError("Distance must be greater than zero.", "INVALID_DISTANCE", nil)
	}

	return t.repos.Tours.WithinRadius(ctx, lat, lng, radiusKm)
}

// Distances returns every located tour with its distance from the given
// point, converted to the requested unit ("km" or "mi").
func (t *TourService) Distances(ctx context.Context, lat, lng float64, unit string) ([]model.TourDistance, error) {
	multiplier, err := distanceUnitMultiplier(unit)
	if err != nil {
		return nil, err
	}

	distances, err := t.repos.Tours.DistancesFrom(ctx, lat, lng)
	if err != nil {
		return nil, err
	}

	for i := range distances {
		distances[i].Distance *= multiplier
	}
	return distances, nil
}

// distanceUnitMultiplier converts the stored kilometer distances into the
// requested unit.
func distanceUnitMultiplier(unit string) (float64, error) {
	switch unit {
	case "km":
		return 1, nil
	case "mi":
		return milesPerKilometer, nil
	default:
		return 0, errs.NewBadRequestError("Unit must be either mi or km.", "INVALID_UNIT", nil)
	}
}

// PrepareWrite derives stored fields from a tour write payload; the slug
// follows the name.
func (t *TourService) PrepareWrite(values map[string]any) map[string]any {
	if name, ok := values["name"].(string); ok && name != "" {
		values["slug"] = Slugify(name)
	}
	return values
}

// Slugify lowercases and reduces a name to hyphen-separated ASCII words.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
