package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"auth_pay_service/internal/db"
	"auth_pay_service/internal/domain"
	"auth_pay_service/internal/middleware"
	"auth_pay_service/internal/payment"
	"auth_pay_service/internal/storage/gormstore"
	"auth_pay_service/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	jwtSecret     = "jwt-secret"
	webhookSecret = "webhook-secret"
)

// testServer wires the handlers the way cmd/server does, minus Redis and Kafka
type testServer struct {
	db     *gorm.DB
	signer *payment.Signer
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "api.db")), db.Options(true))
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.Migrate(gdb))

	signer := payment.NewSigner(webhookSecret)
	processor := payment.NewProcessor(gormstore.New(gdb), signer, nil)

	r := gin.New()
	auth := middleware.JWTAuthMiddleware(jwtSecret)
	admin := middleware.AdminOnlyMiddleware(gdb)
	r.POST("/auth/token", LoginHandler(gdb, jwtSecret, time.Minute))
	users := r.Group("/users", auth)
	users.POST("/", admin, CreateUserHandler(gdb))
	users.GET("/users-with-accounts", admin, ListUsersWithAccountsHandler(gdb))
	users.GET("/:user_id", RetrieveUserHandler(gdb))
	users.GET("/:user_id/accounts", GetUserAccountsHandler(gdb, nil))
	users.GET("/:user_id/transactions", GetUserTransactionsHandler(gdb, nil))
	r.POST("/transaction/payment", auth, PaymentHandler(processor, nil))

	return &testServer{db: gdb, signer: signer, router: r}
}

// seedUser stores a user with password "password" and one empty account
func (s *testServer) seedUser(t *testing.T, username string, admin bool) (domain.User, domain.Account) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	require.NoError(t, err)
	user := domain.User{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: strings.ToUpper(username[:1]) + username[1:],
		LastName:  "Test",
		Password:  string(hash),
		IsAdmin:   admin,
	}
	require.NoError(t, s.db.Create(&user).Error)
	account := domain.Account{UserID: user.ID}
	require.NoError(t, s.db.Create(&account).Error)
	return user, account
}

func (s *testServer) tokenFor(t *testing.T, user domain.User) string {
	t.Helper()
	token, err := utils.GenerateJWT(user, jwtSecret, time.Minute)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) postForm(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}
