package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type downStore struct {
	*store.MemoryStore
}

func (downStore) Ping(context.Context) error { return errors.New("dial tcp: connection refused") }

func setupApp(st store.RecordStore) *fiber.App {
	app := fiber.New()
	profile := NewProfileHandler(services.NewProfileService(st, time.UTC))
	app.Get("/health", NewHealthHandler(st).Check)
	app.Post("/register", profile.Register)
	app.Get("/user/:email", profile.GetUser)
	app.Put("/update/:email", profile.UpdateProfile)
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestHealth(t *testing.T) {
	resp, body := do(t, setupApp(store.NewMemoryStore()), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.HealthResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "ok", out.Status)
	assert.Equal(t, "ok", out.Store)

	_, body = do(t, setupApp(downStore{store.NewMemoryStore()}), http.MethodGet, "/health", "")
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "degraded", out.Status)
	assert.Contains(t, out.Store, "connection refused")
}

func TestRegister(t *testing.T) {
	app := setupApp(store.NewMemoryStore())

	resp, body := do(t, app, http.MethodPost, "/register",
		`{"name":"Asha","email":" asha@example.com ","age":"1","dob":"2024-01-01","phone1":"9000000001","phonemem1":"9000000002"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var out struct {
		Status string      `json:"status"`
		User   models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "Success", out.Status)
	assert.Equal(t, "asha@example.com", out.User.Email)
	require.NotNil(t, out.User.Age)
	assert.Equal(t, 1, *out.User.Age)
	require.NotNil(t, out.User.DOB)
	assert.Equal(t, "2024-01-01", out.User.DOB.Format("2006-01-02"))
	assert.Equal(t, "9000000002", out.User.PhoneMem1)

	resp, _ = do(t, app, http.MethodPost, "/register", `{"email":"asha@example.com"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRegister_Validation(t *testing.T) {
	app := setupApp(store.NewMemoryStore())

	cases := map[string]string{
		"missing email": `{"name":"Asha"}`,
		"bad email":     `{"email":"asha"}`,
		"bad dob":       `{"email":"asha@example.com","dob":"01/02/2024"}`,
		"negative age":  `{"email":"asha@example.com","age":-1}`,
		"word age":      `{"email":"asha@example.com","age":"one"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			resp, _ := do(t, app, http.MethodPost, "/register", body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestGetUser(t *testing.T) {
	st := store.NewMemoryStore()
	require.NoError(t, st.CreateUser(context.Background(), &models.User{Email: "asha@example.com", Name: "Asha"}))
	app := setupApp(st)

	resp, body := do(t, app, http.MethodGet, "/user/asha@example.com", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var user models.User
	require.NoError(t, json.Unmarshal(body, &user))
	assert.Equal(t, "Asha", user.Name)

	resp, _ = do(t, app, http.MethodGet, "/user/nobody@example.com", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateProfile_PartialAndKeepsHistory(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	require.NoError(t, st.CreateUser(ctx, &models.User{Email: "asha@example.com", Name: "Asha", City: "Pune", Phone1: "9000000001"}))
	_, err := st.AddVaccination(ctx, "asha@example.com", &models.Vaccination{VaccineName: "BCG", NextDoseDate: "2024-01-01"})
	require.NoError(t, err)
	app := setupApp(st)

	resp, body := do(t, app, http.MethodPut, "/update/asha@example.com", `{"city":"Indore","phonemem1":" 9000000002 "}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var out struct {
		Status string      `json:"status"`
		User   models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "Success", out.Status)
	assert.Equal(t, "Indore", out.User.City)
	assert.Equal(t, "Asha", out.User.Name)
	assert.Equal(t, "9000000001", out.User.Phone1)
	assert.Equal(t, "9000000002", out.User.PhoneMem1)
	require.Len(t, out.User.Vaccinations, 1)
	assert.Equal(t, "BCG", out.User.Vaccinations[0].VaccineName)

	resp, _ = do(t, app, http.MethodPut, "/update/nobody@example.com", `{"city":"Indore"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, app, http.MethodPut, "/update/asha@example.com", `{"dob":"yesterday"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
