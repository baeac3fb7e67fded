package echoapi

import (
	"reflect"

	"github.com/labstack/echo/v4"
)

// response is the envelope every success response uses: a human message,
// the payload, and for list payloads, the item count.
type response struct {
	Message string      `json:"message"`
	Count   *int        `json:"_count,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func respond(ctx echo.Context, status int, message string, data interface{}) error {
	res := response{Message: message, Data: data}
	if data != nil {
		if v := reflect.ValueOf(data); v.Kind() == reflect.Slice {
			n := v.Len()
			res.Count = &n
		}
	}
	return ctx.JSON(status, res)
}

// loginResponse additionally carries the signed token.
type loginResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Token   string      `json:"token"`
}
