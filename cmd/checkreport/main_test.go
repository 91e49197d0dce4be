package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/weather-guardian/internal/domain"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const tornadoForecastJSON = `{"daily": {"weather_code": [96], "wind_gusts_10m_max": [95.0]}}`

func TestRun_Tier3ViolationExitsNonZero(t *testing.T) {
	forecast := writeFixture(t, "forecast.json", tornadoForecastJSON)
	report := writeFixture(t, "report.txt", "Sunny skies, enjoy your day!")

	assert.Equal(t, 1, run(forecast, report))
}

func TestRun_DisclosedReportExitsZero(t *testing.T) {
	forecast := writeFixture(t, "forecast.json", tornadoForecastJSON)
	report := writeFixture(t, "report.txt", domain.MarkerTornado+" Take shelter immediately.")

	assert.Equal(t, 0, run(forecast, report))
}

func TestRun_AdvisoryOmissionStillReleases(t *testing.T) {
	forecast := writeFixture(t, "forecast.json", `{"daily": {"uv_index_max": [8.0]}}`)
	report := writeFixture(t, "report.txt", "Pleasant day ahead.")

	assert.Equal(t, 0, run(forecast, report), "tier-1 misses are logged, never blocking")
}

func TestRun_EmptyForecastExitsNonZero(t *testing.T) {
	forecast := writeFixture(t, "forecast.json", `{}`)
	report := writeFixture(t, "report.txt", "Anything at all.")

	assert.Equal(t, 1, run(forecast, report), "an empty record vets nothing and must not pass as a gate")
}

func TestRun_MissingFixtureExitsNonZero(t *testing.T) {
	report := writeFixture(t, "report.txt", "Anything at all.")

	assert.Equal(t, 1, run(filepath.Join(t.TempDir(), "absent.json"), report))
}

func TestVetClassification_EmptyRecordFails(t *testing.T) {
	empty := domain.ForecastRecord{}

	p := vetClassification(empty, domain.Classify(empty))

	assert.False(t, p.passed())
}

func TestVetClassification_PopulatedRecordPasses(t *testing.T) {
	forecast := domain.ForecastRecord{UVIndexMax: []float64{3}}

	p := vetClassification(forecast, domain.Classify(forecast))

	assert.True(t, p.passed())
}

func TestLoadForecast_BareDailyBlock(t *testing.T) {
	path := writeFixture(t, "forecast.json", `{"weather_code": [95], "uv_index_max": [7.5]}`)

	record, err := loadForecast(path)
	require.NoError(t, err)
	assert.Equal(t, []int{95}, record.WeatherCodes)
	assert.Equal(t, []float64{7.5}, record.UVIndexMax)
}

func TestLoadForecast_WrappedResponse(t *testing.T) {
	path := writeFixture(t, "forecast.json", tornadoForecastJSON)

	record, err := loadForecast(path)
	require.NoError(t, err)
	assert.Equal(t, []int{96}, record.WeatherCodes)
	assert.Equal(t, []float64{95.0}, record.WindGustMaxKmh)
}
