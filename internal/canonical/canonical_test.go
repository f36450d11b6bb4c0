package canonical_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poi-tile-service/internal/canonical"
	"github.com/poi-tile-service/internal/domain"
	"github.com/poi-tile-service/internal/pkg/errors"
)

func TestCanonicalize_NaviLensCSV(t *testing.T) {
	t.Run("full record is stamped with taxonomy and fixed tags", func(t *testing.T) {
		fields := map[string]string{
			"stop_lat":  "30.0",
			"stop_lon":  "-97.0",
			"stop_desc": "Main St",
			"stop_code": "4217",
		}

		f, err := canonical.Canonicalize(fields, canonical.FormatNaviLensCSV, nil)
		require.NoError(t, err)

		assert.Equal(t, "highway", f.FeatureType)
		assert.Equal(t, "bus_stop", f.FeatureValue)
		assert.Equal(t, 30.0, f.Latitude)
		assert.Equal(t, -97.0, f.Longitude)
		require.NotNil(t, f.Name)
		assert.Equal(t, "NaviLens available: Main St", *f.Name)

		assert.Equal(t, "true", f.Properties["navilens"])
		assert.Equal(t, "yes", f.Properties["bus"])
		assert.Equal(t, "bus_stop", f.Properties["highway"])
		assert.Equal(t, "platform", f.Properties["public_transport"])

		// unconsumed input columns are carried verbatim
		assert.Equal(t, "4217", f.Properties["stop_code"])

		// consumed columns never leak into properties
		assert.NotContains(t, f.Properties, "stop_lat")
		assert.NotContains(t, f.Properties, "stop_lon")
		assert.NotContains(t, f.Properties, "stop_desc")
	})

	t.Run("falls back to stop_name when description is empty", func(t *testing.T) {
		fields := map[string]string{
			"stop_lat":  "30.0",
			"stop_lon":  "-97.0",
			"stop_desc": "",
			"stop_name": "5th & Lamar",
		}

		f, err := canonical.Canonicalize(fields, canonical.FormatNaviLensCSV, nil)
		require.NoError(t, err)
		require.NotNil(t, f.Name)
		assert.Equal(t, "NaviLens available: 5th & Lamar", *f.Name)
	})

	t.Run("name is absent when both name sources are empty", func(t *testing.T) {
		fields := map[string]string{
			"stop_lat": "30.0",
			"stop_lon": "-97.0",
		}

		f, err := canonical.Canonicalize(fields, canonical.FormatNaviLensCSV, nil)
		require.NoError(t, err)
		assert.Nil(t, f.Name, "missing name must not become a bare prefix")
	})

	t.Run("input map is not mutated", func(t *testing.T) {
		fields := map[string]string{
			"stop_lat": "30.0",
			"stop_lon": "-97.0",
		}
		_, err := canonical.Canonicalize(fields, canonical.FormatNaviLensCSV, nil)
		require.NoError(t, err)
		assert.Len(t, fields, 2)
	})
}

func TestCanonicalize_Errors(t *testing.T) {
	t.Run("missing latitude field", func(t *testing.T) {
		_, err := canonical.Canonicalize(map[string]string{
			"stop_lon": "-97.0",
		}, canonical.FormatNaviLensCSV, nil)
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.CodeSchema))
	})

	t.Run("non-numeric longitude", func(t *testing.T) {
		_, err := canonical.Canonicalize(map[string]string{
			"stop_lat": "30.0",
			"stop_lon": "west of town",
		}, canonical.FormatNaviLensCSV, nil)
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.CodeSchema))
	})

	t.Run("latitude outside valid range", func(t *testing.T) {
		_, err := canonical.Canonicalize(map[string]string{
			"stop_lat": "95.0",
			"stop_lon": "-97.0",
		}, canonical.FormatNaviLensCSV, nil)
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.CodeRange))
	})

	t.Run("reserved field collision is reported, not overwritten", func(t *testing.T) {
		_, err := canonical.Canonicalize(map[string]string{
			"stop_lat":     "30.0",
			"stop_lon":     "-97.0",
			"feature_type": "amenity",
		}, canonical.FormatNaviLensCSV, nil)
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.CodeSchema))
	})

	t.Run("unknown source format", func(t *testing.T) {
		_, err := canonical.Canonicalize(map[string]string{}, canonical.SourceFormat("kml"), nil)
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.CodeSchema))
	})
}

func TestCanonicalize_TaxonomyOverride(t *testing.T) {
	fields := map[string]string{
		"stop_lat": "30.0",
		"stop_lon": "-97.0",
	}

	f, err := canonical.Canonicalize(fields, canonical.FormatNaviLensCSV, &canonical.TaxonomyOverride{
		FeatureType:  "railway",
		FeatureValue: "tram_stop",
	})
	require.NoError(t, err)
	assert.Equal(t, "railway", f.FeatureType)
	assert.Equal(t, "tram_stop", f.FeatureValue)
}

func TestCanonicalize_GPX(t *testing.T) {
	const doc = `<?xml version="1.0" encoding="UTF-8"?>
<gpx xmlns="http://www.topografix.com/GPX/1/1" version="1.1">
  <wpt lat="29.4241" lon="-98.4936">
    <name>Commerce St Stop</name>
  </wpt>
  <wpt lat="29.4300" lon="-98.4900"></wpt>
</gpx>`

	records, err := canonical.ReadGPXRecords(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, records, 2)

	first, err := canonical.Canonicalize(records[0], canonical.FormatGPX, nil)
	require.NoError(t, err)
	assert.Equal(t, "highway", first.FeatureType)
	assert.Equal(t, "bus_stop", first.FeatureValue)
	assert.Equal(t, 29.4241, first.Latitude)
	assert.Equal(t, -98.4936, first.Longitude)
	require.NotNil(t, first.Name)
	assert.Equal(t, "Commerce St Stop", *first.Name)
	assert.Equal(t, "yes", first.Properties["qr_code:navilens"])
	assert.Equal(t, "yes", first.Properties["blind"])
	assert.Equal(t, "Has NaviLens code", first.Properties["blind:description"])

	second, err := canonical.Canonicalize(records[1], canonical.FormatGPX, nil)
	require.NoError(t, err)
	assert.Nil(t, second.Name)
}

func TestCanonicalCSV_RoundTrip(t *testing.T) {
	fields := map[string]string{
		"stop_lat":  "30.0",
		"stop_lon":  "-97.0",
		"stop_desc": "Main St",
		"stop_code": "4217",
	}
	f1, err := canonical.Canonicalize(fields, canonical.FormatNaviLensCSV, nil)
	require.NoError(t, err)

	records, err := canonical.ReadGPXRecords(strings.NewReader(`<?xml version="1.0"?>
<gpx xmlns="http://www.topografix.com/GPX/1/1" version="1.1">
  <wpt lat="29.4241" lon="-98.4936"><name>Commerce St Stop</name></wpt>
</gpx>`))
	require.NoError(t, err)
	f2, err := canonical.Canonicalize(records[0], canonical.FormatGPX, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, canonical.WriteCanonicalCSV(&buf, []*domain.Feature{f1, f2}))

	// header must union property columns of both sources
	header := strings.Split(strings.SplitN(buf.String(), "\n", 2)[0], ",")
	assert.Contains(t, header, "stop_code")
	assert.Contains(t, header, "qr_code:navilens")
	assert.Contains(t, header, "navilens")

	parsed, recordErrs, err := canonical.ReadCanonicalCSV(&buf)
	require.NoError(t, err)
	assert.Empty(t, recordErrs)
	require.Len(t, parsed, 2)

	assert.Equal(t, f1.Latitude, parsed[0].Latitude)
	assert.Equal(t, f1.Longitude, parsed[0].Longitude)
	require.NotNil(t, parsed[0].Name)
	assert.Equal(t, "NaviLens available: Main St", *parsed[0].Name)
	assert.Equal(t, "4217", parsed[0].Properties["stop_code"])

	assert.Equal(t, "bus_stop", parsed[1].FeatureValue)
	assert.Equal(t, "yes", parsed[1].Properties["qr_code:navilens"])
}
