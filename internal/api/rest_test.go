package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fanctl/amdfan/internal/controller"
	"github.com/fanctl/amdfan/internal/curves"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func createTestService(t *testing.T, registerer prometheus.Registerer) *echo.Echo {
	table, err := curves.Build([]string{"10 => 10", "40 => 40", "70 => 70", "100 => 100"})
	assert.NoError(t, err)
	return CreateRestService(table, Options{Registerer: registerer})
}

func request(rest *echo.Echo, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	rest.ServeHTTP(rec, req)
	return rec
}

func TestRest_Alive(t *testing.T) {
	// GIVEN
	rest := createTestService(t, nil)

	// WHEN
	rec := request(rest, "/alive")

	// THEN
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRest_Curve(t *testing.T) {
	// GIVEN
	rest := createTestService(t, nil)

	// WHEN
	rec := request(rest, "/curve/")

	// THEN
	assert.Equal(t, http.StatusOK, rec.Code)
	var response CurveResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.True(t, response.Monotonic)
	assert.Equal(t, []curves.Entry{
		{Temperature: 10, Duty: 25},
		{Temperature: 40, Duty: 102},
		{Temperature: 70, Duty: 178},
		{Temperature: 100, Duty: 255},
	}, response.Points)
}

func TestRest_CurveDuty(t *testing.T) {
	// GIVEN
	rest := createTestService(t, nil)

	// WHEN
	rec := request(rest, "/curve/duty/55")

	// THEN
	assert.Equal(t, http.StatusOK, rec.Code)
	var response DutyResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, int16(55), response.Temperature)
	assert.Equal(t, uint8(140), response.Duty)
}

func TestRest_CurveDuty_InvalidTemperature(t *testing.T) {
	// GIVEN
	rest := createTestService(t, nil)

	// WHEN
	rec := request(rest, "/curve/duty/hot/")

	// THEN
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRest_Status(t *testing.T) {
	// GIVEN
	controller.StatusMap.Set("/sys/class/hwmon/hwmon9", controller.Status{
		Device: "/sys/class/hwmon/hwmon9",
		Sensor: "junction",
		State:  controller.StateRunning.String(),
		Duty:   140,
	})
	rest := createTestService(t, nil)

	// WHEN
	rec := request(rest, "/status/hwmon9/")

	// THEN
	assert.Equal(t, http.StatusOK, rec.Code)
	var status controller.Status
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "/sys/class/hwmon/hwmon9", status.Device)
	assert.Equal(t, uint8(140), status.Duty)

	// WHEN
	rec = request(rest, "/status/")

	// THEN
	assert.Equal(t, http.StatusOK, rec.Code)
	var statuses []controller.Status
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &statuses))
	assert.NotEmpty(t, statuses)
}

func TestRest_Status_NotFound(t *testing.T) {
	// GIVEN
	rest := createTestService(t, nil)

	// WHEN
	rec := request(rest, "/status/hwmon404/")

	// THEN
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var result Result
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "Not found", result.Name)
}

func TestRest_RequestMetrics(t *testing.T) {
	// GIVEN
	registry := prometheus.NewRegistry()
	rest := createTestService(t, registry)

	// WHEN
	request(rest, "/curve/")

	// THEN
	families, err := registry.Gather()
	assert.NoError(t, err)
	names := []string{}
	for _, family := range families {
		names = append(names, family.GetName())
	}
	assert.Contains(t, names, "amdfan_api_requests_total")
}
