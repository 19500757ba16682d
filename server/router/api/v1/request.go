package v1

import (
	"encoding/json"
	"strconv"

	"github.com/labstack/echo/v4"
)

// queryLimit reads the limit query parameter; 0 means the service default.
func queryLimit(c echo.Context) (int, error) {
	raw := c.QueryParam("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, badRequest("invalid limit %q", raw)
	}
	return limit, nil
}

// jsonText accepts either a JSON string, kept as its text, or any other JSON value, kept verbatim.
type jsonText string

func (t *jsonText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = jsonText(s)
		return nil
	}
	*t = jsonText(data)
	return nil
}
