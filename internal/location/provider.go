// Package location resolves the coordinates used for solar calculations.
package location

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/avetisov/dimmerd/internal/kv"
)

const lastKnownKey = "last_known"

// Coordinate is a validated geographic position.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// Valid reports whether the coordinate is within range.
func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// Provider supplies the current coordinate, or nil when no location is
// known. Absence is an expected condition: solar-dependent features degrade
// gracefully without a location.
type Provider struct {
	bucket  kv.Bucket
	current *Coordinate
}

// NewProvider creates a provider backed by the given bucket for last-known
// persistence. The bucket may be nil for a purely in-memory provider.
func NewProvider(bucket kv.Bucket) *Provider {
	p := &Provider{bucket: bucket}
	p.restore()
	return p
}

// Current returns a copy of the current coordinate, or nil if none is known.
func (p *Provider) Current() *Coordinate {
	if p.current == nil {
		return nil
	}
	c := *p.current
	return &c
}

// Set validates and stores a coordinate, persisting it as the last-known
// location when a bucket is configured.
func (p *Provider) Set(lat, lon float64) error {
	c := Coordinate{Latitude: lat, Longitude: lon}
	if !c.Valid() {
		return fmt.Errorf("coordinate out of range: lat=%v lon=%v", lat, lon)
	}

	p.current = &c

	if p.bucket != nil {
		err := p.bucket.Store(lastKnownKey, map[string]any{
			"lat": c.Latitude,
			"lon": c.Longitude,
		})
		if err != nil {
			log.Warn().Err(err).Msg("Failed to persist last-known location")
		}
	}

	log.Info().
		Float64("lat", c.Latitude).
		Float64("lon", c.Longitude).
		Msg("Location updated")

	return nil
}

// Clear forgets the current location, including the persisted copy.
func (p *Provider) Clear() {
	p.current = nil
	if p.bucket != nil {
		if _, err := p.bucket.Delete(lastKnownKey); err != nil {
			log.Warn().Err(err).Msg("Failed to clear persisted location")
		}
	}
}

// restore loads the last-known location from the bucket, if present.
func (p *Provider) restore() {
	if p.bucket == nil {
		return
	}

	value, err := p.bucket.Get(lastKnownKey)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load last-known location")
		return
	}
	if value == nil {
		return
	}

	m, ok := value.(map[string]any)
	if !ok {
		return
	}
	lat, latOK := m["lat"].(float64)
	lon, lonOK := m["lon"].(float64)
	if !latOK || !lonOK {
		return
	}

	c := Coordinate{Latitude: lat, Longitude: lon}
	if !c.Valid() {
		return
	}

	p.current = &c
	log.Debug().
		Float64("lat", lat).
		Float64("lon", lon).
		Msg("Restored last-known location")
}
