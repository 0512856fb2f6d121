package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestKindStatus(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:   400,
		KindUnauthorized: 401,
		KindForbidden:    403,
		KindNotFound:     404,
		KindConflict:     400,
		KindInternal:     500,
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.Status(), kind.String())
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("service: %w", NotFound("missing"))
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.True(t, Is(err, KindNotFound))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func decode(t *testing.T, body io.Reader) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func TestHandler_Envelope(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: Handler(zap.NewNop(), false)})
	app.Get("/validation", func(c *fiber.Ctx) error {
		return Validation(MsgInvalidData, "name là bắt buộc")
	})
	app.Get("/conflict", func(c *fiber.Ctx) error { return Conflict("nope") })
	app.Get("/internal", func(c *fiber.Ctx) error { return errors.New("db down") })

	res, err := app.Test(httptest.NewRequest("GET", "/validation", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, res.StatusCode)
	body := decode(t, res.Body)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, MsgInvalidData, body["message"])
	assert.Equal(t, []interface{}{"name là bắt buộc"}, body["errors"])

	res, err = app.Test(httptest.NewRequest("GET", "/conflict", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, res.StatusCode)

	res, err = app.Test(httptest.NewRequest("GET", "/internal", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, res.StatusCode)
	body = decode(t, res.Body)
	assert.Equal(t, MsgServerError, body["message"])
	assert.NotContains(t, body, "error")

	res, err = app.Test(httptest.NewRequest("GET", "/nowhere", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, res.StatusCode)
	assert.Equal(t, MsgRouteMissing, decode(t, res.Body)["message"])
}

func TestHandler_ShowsCauseOutsideProduction(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: Handler(zap.NewNop(), true)})
	app.Get("/", func(c *fiber.Ctx) error { return Internal(errors.New("db down")) })

	res, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	body := decode(t, res.Body)
	assert.Equal(t, "db down", body["error"])
}

type sample struct {
	Name     string  `json:"name" validate:"required,max=5"`
	Price    float64 `json:"price" validate:"gte=0"`
	Category string  `json:"category" validate:"oneof=men women"`
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(sample{Name: "ok", Price: 1, Category: "men"}))

	err := Validate(sample{Name: "toolong", Price: -1, Category: "kids"})
	require.Error(t, err)
	var appErr *Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, KindValidation, appErr.Kind)
	assert.Len(t, appErr.Fields, 3)
	assert.Contains(t, appErr.Fields[0], "name")
	assert.Contains(t, appErr.Fields[2], "men, women")
}
