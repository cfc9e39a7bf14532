package api

import (
	"net/http"

	"github.com/fanctl/amdfan/internal/curves"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	urlParamId      = "id"
	indentationChar = "  "

	EndpointPathAlive = "/alive/"
)

type (
	Result struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	}
)

type Options struct {
	// Registerer receives the request metrics of the API, nil disables them
	Registerer prometheus.Registerer
	// Logging enables the request log
	Logging    bool
}

func CreateRestService(table *curves.Table, options Options) *echo.Echo {
	echoRest := echo.New()
	echoRest.HideBanner = true
	echoRest.HidePort = true

	// Root level middleware
	echoRest.Pre(middleware.AddTrailingSlash())

	echoRest.Use(middleware.Secure())

	if options.Logging {
		echoRest.Use(middleware.Logger())
	}
	echoRest.Use(middleware.Recover())

	if options.Registerer != nil {
		echoRest.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Namespace:  "amdfan",
			Subsystem:  "api",
			Registerer: options.Registerer,
			Skipper: func(c echo.Context) bool {
				return c.Path() == EndpointPathAlive
			},
		}))
	}

	echoRest.GET(EndpointPathAlive, isAlive)

	registerStatusEndpoints(echoRest)
	registerCurveEndpoints(echoRest, table)

	return echoRest
}

// returns an empty "ok" answer
func isAlive(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

// return a "not found" message
func returnNotFound(c echo.Context, id string) (err error) {
	return c.JSONPretty(http.StatusNotFound, &Result{
		Name:    "Not found",
		Message: "No item with id '" + id + "' found",
	}, indentationChar)
}

// return a "bad request" message
func returnBadRequest(c echo.Context, e error) (err error) {
	return c.JSONPretty(http.StatusBadRequest, &Result{
		Name:    "Bad Request",
		Message: e.Error(),
	}, indentationChar)
}
