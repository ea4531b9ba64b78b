package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// bindStrict decodes a JSON body into dst, rejecting unknown keys. Partial
// profile updates are typed: the set of updatable fields is enumerated in
// the request schema, and anything outside it is a client error instead of
// an untyped passthrough.
func bindStrict(c echo.Context, dst any) error {
	dec := json.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid payload: %v", err))
	}
	return nil
}
