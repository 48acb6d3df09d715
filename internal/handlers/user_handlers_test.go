package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestRouter(t *testing.T) (*Handlers, sqlmock.Sqlmock, *gin.Engine) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-signing-secret")
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	h := &Handlers{DB: db}
	router := gin.New()
	return h, mock, router
}

func postJSON(router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegister(t *testing.T) {
	h, mock, router := newTestRouter(t)
	router.POST("/v1/register", h.Register)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("dara@example.com", "sokdara").
		WillReturnRows(mock.NewRows([]string{"email_taken", "username_taken"}).AddRow(false, false))
	mock.ExpectExec("INSERT INTO users").
		WillReturnResult(sqlmock.NewResult(42, 1))

	w := postJSON(router, "/v1/register", gin.H{
		"username": "sokdara",
		"email":    "dara@example.com",
		"password": "correct-horse",
	})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID int64 `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, int64(42), resp.User.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h, mock, router := newTestRouter(t)
	router.POST("/v1/register", h.Register)

	mock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(mock.NewRows([]string{"email_taken", "username_taken"}).AddRow(true, false))

	w := postJSON(router, "/v1/register", gin.H{
		"username": "sokdara",
		"email":    "dara@example.com",
		"password": "correct-horse",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "email")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterValidation(t *testing.T) {
	h, _, router := newTestRouter(t)
	router.POST("/v1/register", h.Register)

	tests := []struct {
		name string
		body gin.H
	}{
		{"short username", gin.H{"username": "ab", "email": "a@b.com", "password": "correct-horse"}},
		{"bad email", gin.H{"username": "sokdara", "email": "nope", "password": "correct-horse"}},
		{"short password", gin.H{"username": "sokdara", "email": "a@b.com", "password": "short"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(router, "/v1/register", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestLogin(t *testing.T) {
	h, mock, router := newTestRouter(t)
	router.POST("/v1/login", h.Login)

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.DefaultCost)
	require.NoError(t, err)

	userRows := func() *sqlmock.Rows {
		return mock.NewRows([]string{"id", "username", "email", "password_hash", "is_admin"}).
			AddRow(42, "sokdara", "dara@example.com", string(hash), false)
	}

	mock.ExpectQuery("SELECT id, username, email, password_hash, is_admin FROM users").
		WithArgs("dara@example.com").
		WillReturnRows(userRows())

	w := postJSON(router, "/v1/login", gin.H{"email": "dara@example.com", "password": "correct-horse"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "token")

	// Wrong password gets the same message as an unknown email.
	mock.ExpectQuery("SELECT id, username, email, password_hash, is_admin FROM users").
		WithArgs("dara@example.com").
		WillReturnRows(userRows())

	w = postJSON(router, "/v1/login", gin.H{"email": "dara@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid email or password")

	mock.ExpectQuery("SELECT id, username, email, password_hash, is_admin FROM users").
		WithArgs("nobody@example.com").
		WillReturnRows(mock.NewRows([]string{"id"}))

	w = postJSON(router, "/v1/login", gin.H{"email": "nobody@example.com", "password": "whatever"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid email or password")

	assert.NoError(t, mock.ExpectationsWereMet())
}
