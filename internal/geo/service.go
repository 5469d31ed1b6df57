package geo

import (
	"context"

	"github.com/example/commute-front/internal/models"
)

// Router is the route-computation dependency, satisfied by OSRMClient and by
// test fakes.
type Router interface {
	Route(ctx context.Context, from, to models.Coord) (Route, error)
}

// Geocoder is the address-search dependency, satisfied by NominatimClient.
type Geocoder interface {
	Search(ctx context.Context, query string, limit int) ([]Place, error)
}

// Service fronts the mapping collaborators with a route cache.
type Service struct {
	Geocoder Geocoder
	Router   Router
	Cache    *RouteCache
}

func NewService(g Geocoder, r Router, cache *RouteCache) *Service {
	return &Service{Geocoder: g, Router: r, Cache: cache}
}

func (s *Service) Search(ctx context.Context, query string, limit int) ([]Place, error) {
	return s.Geocoder.Search(ctx, query, limit)
}

// Route computes or recalls the driving route between two points.
func (s *Service) Route(ctx context.Context, from, to models.Coord) (Route, error) {
	if s.Cache != nil {
		if r, ok := s.Cache.Get(from, to); ok {
			return r, nil
		}
	}
	r, err := s.Router.Route(ctx, from, to)
	if err != nil {
		return Route{}, err
	}
	if s.Cache != nil {
		s.Cache.Set(from, to, r)
	}
	return r, nil
}
