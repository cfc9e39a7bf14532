package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/fanctl/amdfan/internal/curves"
	"github.com/labstack/echo/v4"
)

const urlParamTemperature = "temperature"

type CurveResponse struct {
	Points    []curves.Entry `json:"points"`
	Monotonic bool           `json:"monotonic"`
}

type DutyResponse struct {
	Temperature int16   `json:"temperature"`
	Duty        uint8   `json:"duty"`
	Percent     float64 `json:"percent"`
}

func registerCurveEndpoints(rest *echo.Echo, table *curves.Table) {
	group := rest.Group("/curve")

	group.GET("/", func(c echo.Context) error {
		return getCurve(c, table)
	})
	group.GET("/duty/:"+urlParamTemperature+"/", func(c echo.Context) error {
		return getDuty(c, table)
	})
}

func getCurve(c echo.Context, table *curves.Table) error {
	return c.JSONPretty(http.StatusOK, CurveResponse{
		Points:    table.Entries(),
		Monotonic: table.IsMonotonic(),
	}, indentationChar)
}

// returns the duty the curve yields for the given temperature
func getDuty(c echo.Context, table *curves.Table) error {
	param := c.Param(urlParamTemperature)
	temperature, err := strconv.ParseInt(param, 10, 16)
	if err != nil {
		return returnBadRequest(c, fmt.Errorf("invalid temperature '%s'", param))
	}
	duty := table.Interpolate(int16(temperature))
	return c.JSONPretty(http.StatusOK, DutyResponse{
		Temperature: int16(temperature),
		Duty:        duty,
		Percent:     curves.DutyToPercent(duty),
	}, indentationChar)
}
