package authRoutes_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"coursetrack/config"
	authController "coursetrack/controllers/auth"
	superAdminController "coursetrack/controllers/superAdmin"
	userProfileController "coursetrack/controllers/userControllers"
	"coursetrack/database"
	"coursetrack/database/testutil"
	"coursetrack/logger"
	"coursetrack/routers/authRoutes"
	superAdminRoutes "coursetrack/routers/superAdmin"
	userProfileRoutes "coursetrack/routers/userRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	config.AppConfig = &config.Config{
		JWTKey:     "auth-test",
		SaltRound:  bcrypt.MinCost,
		AdminEmail: "root@example.com",
	}

	db := testutil.DB(t)
	users := database.NewUserStore(db)
	log := logger.Nop()
	authController.Setup(users, log)
	superAdminController.Setup(users, log)
	userProfileController.Setup(users, database.NewEnrollmentStore(db, 5))

	app := fiber.New()
	authRoutes.SetupAuthRoutes(app)
	userProfileRoutes.SetupUserRoutes(app)
	superAdminRoutes.SetupSuperAdminRoutes(app)
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

type account struct {
	ID   uint   `json:"ID"`
	Name string `json:"name"`
	Role string `json:"role"`
}

func signupAndLogin(t *testing.T, app *fiber.App, name, email string) (account, string) {
	t.Helper()
	status, env := call(t, app, http.MethodPost, "/auth/signup", "", fiber.Map{
		"name": name, "email": email, "password": "correct-horse",
	})
	require.Equal(t, fiber.StatusCreated, status, env.Message)

	status, env = call(t, app, http.MethodPost, "/auth/login", "", fiber.Map{
		"email": email, "password": "correct-horse",
	})
	require.Equal(t, fiber.StatusOK, status, env.Message)

	var out struct {
		Token string  `json:"token"`
		User  account `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.NotEmpty(t, out.Token)
	return out.User, out.Token
}

func TestSignupAndLogin(t *testing.T) {
	app := newApp(t)

	user, _ := signupAndLogin(t, app, "Learner One", "Learner@Example.com")
	assert.Equal(t, "USER", user.Role)

	status, _ := call(t, app, http.MethodPost, "/auth/signup", "", fiber.Map{
		"name": "Someone Else", "email": "learner@example.com", "password": "another-pass",
	})
	assert.Equal(t, fiber.StatusConflict, status)

	status, _ = call(t, app, http.MethodPost, "/auth/login", "", fiber.Map{
		"email": "learner@example.com", "password": "wrong-password",
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, env := call(t, app, http.MethodPost, "/auth/signup", "", fiber.Map{
		"name": "x", "email": "not-an-email", "password": "short",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.False(t, env.Status)
}

func TestProfile(t *testing.T) {
	app := newApp(t)
	_, token := signupAndLogin(t, app, "Profile User", "profile@example.com")

	status, env := call(t, app, http.MethodGet, "/user/profile", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	var profile struct {
		Enrolled int `json:"enrolled_courses"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Zero(t, profile.Enrolled)

	status, env = call(t, app, http.MethodPut, "/user/profile", token, fiber.Map{"name": "Renamed User"})
	require.Equal(t, fiber.StatusOK, status)
	var updated account
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "Renamed User", updated.Name)

	status, _ = call(t, app, http.MethodPut, "/user/profile", token, fiber.Map{"name": "ab"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)

	status, _ = call(t, app, http.MethodGet, "/user/profile", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestAdminManagesRoles(t *testing.T) {
	app := newApp(t)
	admin, adminToken := signupAndLogin(t, app, "Root Admin", "root@example.com")
	require.Equal(t, "ADMIN", admin.Role)
	learner, learnerToken := signupAndLogin(t, app, "Plain Learner", "plain@example.com")

	status, _ := call(t, app, http.MethodGet, "/admin/user/list", learnerToken, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, env := call(t, app, http.MethodGet, "/admin/user/list?page=1&limit=10", adminToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	var list struct {
		Users      []account `json:"users"`
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.EqualValues(t, 2, list.Pagination.Total)
	assert.Len(t, list.Users, 2)

	status, env = call(t, app, http.MethodPatch, fmt.Sprintf("/admin/user/%d/role", learner.ID), adminToken, fiber.Map{"role": "admin"})
	require.Equal(t, fiber.StatusOK, status, env.Message)
	var promoted account
	require.NoError(t, json.Unmarshal(env.Data, &promoted))
	assert.Equal(t, "ADMIN", promoted.Role)

	status, _ = call(t, app, http.MethodPatch, fmt.Sprintf("/admin/user/%d/role", admin.ID), adminToken, fiber.Map{"role": "USER"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = call(t, app, http.MethodPatch, fmt.Sprintf("/admin/user/%d/role", learner.ID), adminToken, fiber.Map{"role": "OWNER"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
}
