package accounts_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-accounts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAPI struct {
	app  *fiber.App
	repo *memUsers
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	repo := newMemUsers()
	cfg := newTestConfig()

	service := accounts.NewAccountService(repo, cfg)
	controller := accounts.NewAccountController(service)
	gate := accounts.NewGate(service, repo, cfg)

	app := fiber.New()
	accounts.RegisterRoutes(app, controller, gate)

	return &testAPI{app: app, repo: repo}
}

func (api *testAPI) do(t *testing.T, method, path, token string, payload any) (*http.Response, map[string]any) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("x-auth-token", token)
	}

	resp, err := api.app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	decoded := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	} else {
		decoded["_raw"] = string(raw)
	}

	return resp, decoded
}

func TestTestRoute(t *testing.T) {
	api := newTestAPI(t)

	resp, body := api.do(t, "GET", "/test", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Hello it's working", body["_raw"])
}

func TestRegisterRoute(t *testing.T) {
	api := newTestAPI(t)

	t.Run("success", func(t *testing.T) {
		resp, body := api.do(t, "POST", "/register", "", map[string]string{
			"email":         "a@x.com",
			"password":      "abcde",
			"passwordCheck": "abcde",
		})

		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
		assert.Equal(t, "a@x.com", body["displayName"])
		assert.Equal(t, "a@x.com", body["email"])
		assert.NotEmpty(t, body["id"])
		assert.NotContains(t, body, "password")
		assert.NotContains(t, body, "password_hash")
	})

	t.Run("duplicate email", func(t *testing.T) {
		resp, body := api.do(t, "POST", "/register", "", map[string]string{
			"email":         "a@x.com",
			"password":      "abcde",
			"passwordCheck": "abcde",
		})

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "an account with this email already exists", body["msg"])
	})

	t.Run("missing fields", func(t *testing.T) {
		resp, body := api.do(t, "POST", "/register", "", map[string]string{
			"email": "b@x.com",
		})

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "not all fields have been entered", body["msg"])
	})

	t.Run("short password", func(t *testing.T) {
		resp, body := api.do(t, "POST", "/register", "", map[string]string{
			"email":         "b@x.com",
			"password":      "abcd",
			"passwordCheck": "abcd",
		})

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "the password needs to be at least 5 characters long", body["msg"])
	})

	t.Run("password mismatch", func(t *testing.T) {
		resp, body := api.do(t, "POST", "/register", "", map[string]string{
			"email":         "b@x.com",
			"password":      "abcde",
			"passwordCheck": "abcdf",
		})

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "enter the same password twice for verification", body["msg"])
	})

	t.Run("repository fault is a 500 with {error}", func(t *testing.T) {
		faulty := newTestAPI(t)
		faulty.repo.failWith("Create", errors.New("driver: connection refused"))

		resp, body := faulty.do(t, "POST", "/register", "", map[string]string{
			"email":         "c@x.com",
			"password":      "abcde",
			"passwordCheck": "abcde",
		})

		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
		assert.NotEmpty(t, body["error"])
		assert.NotContains(t, body, "msg")
	})
}

func TestLoginRoute(t *testing.T) {
	api := newTestAPI(t)

	_, _ = api.do(t, "POST", "/register", "", map[string]string{
		"email":         "a@x.com",
		"password":      "abcde",
		"passwordCheck": "abcde",
	})

	t.Run("success", func(t *testing.T) {
		resp, body := api.do(t, "POST", "/login", "", map[string]string{
			"email":    "a@x.com",
			"password": "abcde",
		})

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, body["token"])

		user, ok := body["user"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "a@x.com", user["email"])
		assert.Equal(t, "a@x.com", user["displayName"])
		assert.NotEmpty(t, user["id"])
	})

	t.Run("unknown email", func(t *testing.T) {
		resp, body := api.do(t, "POST", "/login", "", map[string]string{
			"email":    "nobody@x.com",
			"password": "abcde",
		})

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "no account with this email has been registered", body["msg"])
	})

	t.Run("wrong password", func(t *testing.T) {
		resp, body := api.do(t, "POST", "/login", "", map[string]string{
			"email":    "a@x.com",
			"password": "nope!",
		})

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "invalid credentials", body["msg"])
	})

	t.Run("missing fields", func(t *testing.T) {
		resp, body := api.do(t, "POST", "/login", "", map[string]string{
			"email": "a@x.com",
		})

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "not all fields have been entered", body["msg"])
	})
}

// TestAccountLifecycle walks the full journey: register, login, check the
// token, read the identity, delete the account, and watch the token die with
// its subject.
func TestAccountLifecycle(t *testing.T) {
	api := newTestAPI(t)

	_, registered := api.do(t, "POST", "/register", "", map[string]string{
		"email":         "a@x.com",
		"password":      "abcde",
		"passwordCheck": "abcde",
	})
	require.NotEmpty(t, registered["id"])

	_, login := api.do(t, "POST", "/login", "", map[string]string{
		"email":    "a@x.com",
		"password": "abcde",
	})
	token, _ := login["token"].(string)
	require.NotEmpty(t, token)

	resp, body := api.do(t, "POST", "/tokenIsValid", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "true", body["_raw"])

	resp, body = api.do(t, "GET", "/", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "a@x.com", body["displayName"])
	assert.Equal(t, registered["id"], body["id"])
	assert.NotContains(t, body, "email")

	resp, body = api.do(t, "DELETE", "/delete", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, registered["id"], body["id"])

	resp, _ = api.do(t, "GET", "/", token, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, body = api.do(t, "POST", "/tokenIsValid", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "false", body["_raw"])
}

func TestProtectedRoutesRejectWithoutToken(t *testing.T) {
	api := newTestAPI(t)

	resp, _ := api.do(t, "GET", "/", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = api.do(t, "DELETE", "/delete", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestTokenIsValidWithoutHeader(t *testing.T) {
	api := newTestAPI(t)

	resp, body := api.do(t, "POST", "/tokenIsValid", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "false", body["_raw"])
}
