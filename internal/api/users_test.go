package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"auth_pay_service/internal/domain"
	"auth_pay_service/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginHandler(t *testing.T) {
	s := newTestServer(t)
	user, _ := s.seedUser(t, "alice", true)
	inactive, _ := s.seedUser(t, "dave", false)
	require.NoError(t, s.db.Model(&inactive).Update("is_active", false).Error)

	w := s.postForm(t, "/auth/token", url.Values{"username": {"alice"}, "password": {"password"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "bearer", resp.TokenType)

	claims, err := utils.ParseJWT(resp.AccessToken, jwtSecret)
	require.NoError(t, err)
	assert.Equal(t, domain.Identity{ID: user.ID, Username: "alice", IsAdmin: true}, claims.Identity())

	for name, form := range map[string]url.Values{
		"wrong password": {"username": {"alice"}, "password": {"nope"}},
		"unknown user":   {"username": {"zed"}, "password": {"password"}},
		"inactive user":  {"username": {"dave"}, "password": {"password"}},
	} {
		w := s.postForm(t, "/auth/token", form)
		assert.Equal(t, http.StatusUnauthorized, w.Code, name)
		assert.JSONEq(t, `{"error":"Invalid authentication credentials"}`, w.Body.String(), name)
	}

	w = s.postForm(t, "/auth/token", url.Values{"username": {"alice"}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCreateUserHandler(t *testing.T) {
	s := newTestServer(t)
	admin, _ := s.seedUser(t, "root", true)
	plain, _ := s.seedUser(t, "alice", false)

	body := CreateUserRequest{Email: "bob@example.com", Username: "bob", FirstName: "Bob", LastName: "Builder", Password: "secret"}

	w := s.do(t, http.MethodPost, "/users/", s.tokenFor(t, plain), body)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"You don't have permission"}`, w.Body.String())

	w = s.do(t, http.MethodPost, "/users/", s.tokenFor(t, admin), body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created domain.User
	require.NoError(t, s.db.Preload("Accounts").Where("email = ?", "bob@example.com").First(&created).Error)
	assert.True(t, created.IsActive)
	assert.NotEqual(t, "secret", created.Password)
	require.Len(t, created.Accounts, 1)
	assert.True(t, created.Accounts[0].Balance.IsZero())

	w = s.do(t, http.MethodPost, "/users/", s.tokenFor(t, admin), body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"User already registered"}`, w.Body.String())

	var accounts int64
	require.NoError(t, s.db.Model(&domain.Account{}).Where("user_id = ?", created.ID).Count(&accounts).Error)
	assert.Equal(t, int64(1), accounts)
}

func TestAdminMiddlewareUsesStoredFlag(t *testing.T) {
	s := newTestServer(t)
	demoted, _ := s.seedUser(t, "root", true)
	token := s.tokenFor(t, demoted) // token still claims admin
	require.NoError(t, s.db.Model(&demoted).Update("is_admin", false).Error)

	w := s.do(t, http.MethodGet, "/users/users-with-accounts", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestListUsersWithAccounts(t *testing.T) {
	s := newTestServer(t)
	admin, adminAccount := s.seedUser(t, "root", true)
	alice, aliceAccount := s.seedUser(t, "alice", false)
	gone, _ := s.seedUser(t, "gone", false)
	require.NoError(t, s.db.Model(&gone).Update("is_active", false).Error)

	w := s.do(t, http.MethodGet, "/users/users-with-accounts", s.tokenFor(t, admin), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	want := fmt.Sprintf(`[
		{"id":%d,"email":"alice@example.com","full_name":"Alice Test","accounts":[{"id":%d,"total":"0"}]},
		{"id":%d,"email":"root@example.com","full_name":"Root Test","accounts":[{"id":%d,"total":"0"}]}
	]`, alice.ID, aliceAccount.ID, admin.ID, adminAccount.ID)
	assert.JSONEq(t, want, w.Body.String())
}

func TestUserReadAccess(t *testing.T) {
	s := newTestServer(t)
	admin, _ := s.seedUser(t, "root", true)
	alice, aliceAccount := s.seedUser(t, "alice", false)
	bob, _ := s.seedUser(t, "bob", false)

	// Give alice one payment
	body := s.signed(domain.WebhookPayment{TransactionID: txToken, AccountID: aliceAccount.ID, UserID: alice.ID, Amount: 42.5})
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/transaction/payment", s.tokenFor(t, alice), body).Code)

	aliceID := fmt.Sprint(alice.ID)

	w := s.do(t, http.MethodGet, "/users/"+aliceID, s.tokenFor(t, alice), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"id":%d,"email":"alice@example.com","full_name":"Alice Test"}`, alice.ID), w.Body.String())

	w = s.do(t, http.MethodGet, "/users/"+aliceID, s.tokenFor(t, admin), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/users/"+aliceID, s.tokenFor(t, bob), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"You can't get someone else's data"}`, w.Body.String())

	w = s.do(t, http.MethodGet, "/users/"+aliceID+"/accounts", s.tokenFor(t, bob), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/users/9999", s.tokenFor(t, admin), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/users/abc", s.tokenFor(t, admin), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = s.do(t, http.MethodGet, "/users/"+aliceID+"/accounts", s.tokenFor(t, alice), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, fmt.Sprintf(`[{"id":%d,"total":"42.5"}]`, aliceAccount.ID), w.Body.String())

	w = s.do(t, http.MethodGet, "/users/"+aliceID+"/transactions", s.tokenFor(t, alice), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var txs []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &txs))
	require.Len(t, txs, 1)
	assert.Equal(t, txToken, txs[0]["transaction_id"])
	assert.Equal(t, "42.5", txs[0]["amount"])
	assert.NotContains(t, txs[0], "user_id")
}
