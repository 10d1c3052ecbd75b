package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/encore/internal/radio"
	"github.com/llehouerou/encore/internal/state"
)

func TestFindStation(t *testing.T) {
	stations := []radio.Station{
		{ID: "fip", Name: "FIP"},
		{ID: "nova", Name: "fip"},
		{ID: "kexp", Name: "KEXP Seattle"},
	}

	st, ok := findStation(stations, "fip")
	require.True(t, ok)
	assert.Equal(t, "FIP", st.Name, "an ID match wins over a name match")

	st, ok = findStation(stations, "kexp seattle")
	require.True(t, ok)
	assert.Equal(t, "kexp", st.ID)

	_, ok = findStation(stations, "nts")
	assert.False(t, ok)
}

func TestStationFromState(t *testing.T) {
	st := stationFromState(state.StationState{ID: "fip", Name: "FIP", URL: "http://icecast/fip"})
	assert.Equal(t, radio.Station{ID: "fip", Name: "FIP", URL: "http://icecast/fip"}, st)
}
