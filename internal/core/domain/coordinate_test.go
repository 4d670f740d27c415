package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinate_Validate(t *testing.T) {
	tests := []struct {
		name  string
		coord Coordinate
		valid bool
	}{
		{"origin", Coordinate{0, 0}, true},
		{"bangalore", Coordinate{12.9716, 77.5946}, true},
		{"north pole", Coordinate{90, 0}, true},
		{"antimeridian", Coordinate{0, -180}, true},
		{"lat too high", Coordinate{90.0001, 0}, false},
		{"lat too low", Coordinate{-91, 0}, false},
		{"lng too high", Coordinate{0, 181}, false},
		{"nan", Coordinate{math.NaN(), 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.coord.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, ErrInvalidLocation))
			}
		})
	}
}

func TestNewCoordinate(t *testing.T) {
	c, err := NewCoordinate(12.97, 77.59)
	require.NoError(t, err)
	assert.Equal(t, Coordinate{Latitude: 12.97, Longitude: 77.59}, c)

	_, err = NewCoordinate(100, 0)
	assert.ErrorIs(t, err, ErrInvalidLocation)
}

func TestCoordinate_Rounded(t *testing.T) {
	c := Coordinate{Latitude: 12.971612, Longitude: 77.594649}

	assert.Equal(t, Coordinate{Latitude: 12.9716, Longitude: 77.5946}, c.Rounded(4))
	assert.Equal(t, Coordinate{Latitude: 13, Longitude: 78}, c.Rounded(0))
	assert.Equal(t, c, c.Rounded(-1))
}

func TestCoordinate_String(t *testing.T) {
	assert.Equal(t, "12.971600,77.594600", Coordinate{12.9716, 77.5946}.String())
}
