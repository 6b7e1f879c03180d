package service

import (
	"errors"
	"math"

	"github.com/tidwall/geodesic"

	"github.com/bhavisha4779/accident-relay/module/accident/domain"
)

var ErrEmptyRegistry = errors.New("hospital registry is empty")

type Resolver struct {
	hospitals []domain.Hospital
}

func NewResolver(hospitals []domain.Hospital) (*Resolver, error) {
	if len(hospitals) == 0 {
		return nil, ErrEmptyRegistry
	}
	return &Resolver{hospitals: append([]domain.Hospital(nil), hospitals...)}, nil
}

// Nearest returns the closest hospital on the WGS84 ellipsoid and its
// distance in km rounded to two decimals. Ties keep the earlier entry.
func (r *Resolver) Nearest(lat, lon float64) (domain.Hospital, float64) {
	best := 0
	bestDist := math.Inf(1)
	for i, h := range r.hospitals {
		if d := distanceMeters(lat, lon, h.Lat, h.Lon); d < bestDist {
			best, bestDist = i, d
		}
	}

	return r.hospitals[best], roundKm(bestDist / 1000)
}

func (r *Resolver) Hospitals() []domain.Hospital {
	return append([]domain.Hospital(nil), r.hospitals...)
}

func distanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	var s12 float64
	geodesic.WGS84.Inverse(lat1, lon1, lat2, lon2, &s12, nil, nil)
	return s12
}

func roundKm(km float64) float64 {
	return math.Round(km*100) / 100
}
