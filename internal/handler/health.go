package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is used by load balancers and orchestrators.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func Ping(c echo.Context) error {
	return c.String(http.StatusOK, "pong")
}

func Welcome(c echo.Context) error {
	return c.String(http.StatusOK, "Welcome to the homepage!")
}
