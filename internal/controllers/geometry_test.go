package controllers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lineString = `{"type":"LineString","coordinates":[[36.8219,-1.2921],[36.8250,-1.2950]]}`

func TestGeometryRoundTrip(t *testing.T) {
	wkbBytes, err := parseAndConvertGeometry(lineString)
	require.NoError(t, err)
	require.NotEmpty(t, wkbBytes)

	out, err := convertWKBToGeoJSON(wkbBytes)
	require.NoError(t, err)

	var want, got map[string]any
	require.NoError(t, json.Unmarshal([]byte(lineString), &want))
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, want, got)
}

func TestParseAndConvertGeometryRejectsBadInput(t *testing.T) {
	_, err := parseAndConvertGeometry("")
	assert.Error(t, err)

	_, err = parseAndConvertGeometry("not geojson")
	assert.Error(t, err)

	_, err = parseAndConvertGeometry(`{"type":"Nonsense","coordinates":[]}`)
	assert.Error(t, err)
}

func TestConvertWKBToGeoJSONEmpty(t *testing.T) {
	s, err := convertWKBToGeoJSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "", s)
}
