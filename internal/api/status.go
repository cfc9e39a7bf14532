package api

import (
	"net/http"
	"path/filepath"
	"sort"

	"github.com/fanctl/amdfan/internal/controller"
	"github.com/labstack/echo/v4"
	"github.com/qdm12/reprint"
)

func registerStatusEndpoints(rest *echo.Echo) {
	group := rest.Group("/status")

	group.GET("/", getStatuses)
	group.GET("/:"+urlParamId+"/", getStatus)
}

// returns the status of every controller, ordered by device path
func getStatuses(c echo.Context) error {
	items := controller.StatusMap.Items()
	statuses := make([]controller.Status, 0, len(items))
	for _, status := range items {
		statuses = append(statuses, status)
	}
	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].Device < statuses[j].Device
	})
	data := reprint.This(statuses)
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}

// id is the name of the hwmon directory, e.g. "hwmon3"
func getStatus(c echo.Context) error {
	id := c.Param(urlParamId)
	for item := range controller.StatusMap.IterBuffered() {
		if filepath.Base(item.Key) == id {
			return c.JSONPretty(http.StatusOK, reprint.This(item.Val), indentationChar)
		}
	}
	return returnNotFound(c, id)
}
