package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineKmZeroForSamePoint(t *testing.T) {
	assert.Zero(t, HaversineKm(40.7128, -74.0060, 40.7128, -74.0060))
}

func TestHaversineKmSymmetric(t *testing.T) {
	forward := HaversineKm(40.7128, -74.0060, 34.0522, -118.2437)
	backward := HaversineKm(34.0522, -118.2437, 40.7128, -74.0060)
	assert.InDelta(t, forward, backward, 1e-9)
}

func TestHaversineKmKnownDistances(t *testing.T) {
	// One degree of latitude at the equator.
	assert.InDelta(t, 111.19, HaversineKm(0, 0, 1, 0), 0.1)

	// New York to Los Angeles, roughly 3936 km great-circle.
	assert.InDelta(t, 3936, HaversineKm(40.7128, -74.0060, 34.0522, -118.2437), 20)
}

func TestHaversineKmNonNegative(t *testing.T) {
	assert.GreaterOrEqual(t, HaversineKm(-33.8688, 151.2093, 51.5074, -0.1278), 0.0)
}
