package serverutils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"ai-crm-be/pkg/crmerr"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newApp(handler fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware(nil))
	app.Get("/", handler)
	return app
}

func doGet(t *testing.T, app *fiber.App, headers map[string]string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest("GET", "/", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(body, &env))
	return resp.StatusCode, env
}

func TestErrorHandlerMapsKinds(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", crmerr.Newf(crmerr.KindNotFound, "show", "contact missing"), 404},
		{"backend error", crmerr.New(crmerr.KindBackendError, "load", errors.New("dial tcp: refused")), 502},
		{"update failed", crmerr.New(crmerr.KindUpdateFailed, "update", errors.New("boom")), 502},
		{"format", crmerr.New(crmerr.KindExtractionFormatError, "parse", errors.New("bad")), 422},
		{"fiber error", fiber.NewError(fiber.StatusBadRequest, "bad body"), 400},
		{"unknown", errors.New("kaboom"), 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := doGet(t, newApp(func(c *fiber.Ctx) error { return tt.err }), nil)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.status, env.Code)
			assert.False(t, env.Success)
			assert.NotContains(t, env.Message, "dial tcp")
		})
	}
}

func TestErrorHandlerAttachesRemediation(t *testing.T) {
	err := &crmerr.Error{Kind: crmerr.KindBackendUnavailable, Schema: crmerr.SchemaActionTagColumnMissing, Err: errors.New("column missing")}
	status, env := doGet(t, newApp(func(c *fiber.Ctx) error { return err }), nil)

	assert.Equal(t, 503, status)
	var r Remediation
	require.NoError(t, json.Unmarshal(env.Data, &r))
	assert.Equal(t, crmerr.SchemaActionTagColumnMissing, r.Issue)
	assert.Contains(t, r.Script, "ADD COLUMN IF NOT EXISTS action_tag")
}

func TestValidationErrors(t *testing.T) {
	type req struct {
		Text string `json:"text" validate:"required"`
	}
	status, env := doGet(t, newApp(func(c *fiber.Ctx) error { return ValidateRequest(req{}) }), nil)

	assert.Equal(t, 400, status)
	var fields []FieldError
	require.NoError(t, json.Unmarshal(env.Data, &fields))
	require.Len(t, fields, 1)
	assert.Equal(t, "Text", fields[0].Field)
	assert.Equal(t, "required", fields[0].Tag)
}

func TestSuccessResponse(t *testing.T) {
	status, env := doGet(t, newApp(func(c *fiber.Ctx) error {
		return c.JSON(SuccessResponse("ok", map[string]int{"n": 1}))
	}), nil)
	assert.Equal(t, 200, status)
	assert.True(t, env.Success)
	assert.JSONEq(t, `{"n":1}`, string(env.Data))
}

func TestJwtMiddleware(t *testing.T) {
	secret := "s3cret"
	app := fiber.New()
	app.Use(JwtMiddleware(secret))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(SuccessResponse("ok", c.Locals("user_id")))
	})

	status, _ := doGet(t, app, nil)
	assert.Equal(t, 401, status)

	status, _ = doGet(t, app, map[string]string{"Authorization": "Bearer garbage"})
	assert.Equal(t, 401, status)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)

	status, env := doGet(t, app, map[string]string{"Authorization": "Bearer " + signed})
	assert.Equal(t, 200, status)
	assert.JSONEq(t, `"user-1"`, string(env.Data))
}

func TestJwtMiddlewareDisabled(t *testing.T) {
	app := fiber.New()
	app.Use(JwtMiddleware(""))
	app.Get("/", func(c *fiber.Ctx) error { return c.JSON(SuccessResponse[any]("ok", nil)) })

	status, env := doGet(t, app, nil)
	assert.Equal(t, 200, status)
	assert.True(t, env.Success)
}
