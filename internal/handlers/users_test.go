package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vcsrentals/rentals-backend/internal/middleware"
	"github.com/vcsrentals/rentals-backend/internal/models"
	"github.com/vcsrentals/rentals-backend/pkg/utils"
)

func testTokenManager() *utils.TokenManager {
	return utils.NewTokenManager("test-secret", 48*time.Hour)
}

func sessionCookie(t *testing.T, cookies []*http.Cookie) *http.Cookie {
	t.Helper()
	for _, cookie := range cookies {
		if cookie.Name == middleware.CookieName {
			return cookie
		}
	}
	t.Fatalf("no %q cookie in response", middleware.CookieName)
	return nil
}

func TestSignupSuccessSetsSessionCookie(t *testing.T) {
	db := setupTestDB(t)
	tm := testTokenManager()

	c, w := newJSONContext(t, "POST", "/api/users/signup", gin.H{
		"email":    "a@b.com",
		"password": "Abc12",
		"username": "u1",
	})
	Signup(db, tm)(c)

	assert.Equal(t, 200, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "a@b.com", body["email"])
	assert.Equal(t, "u1", body["username"])
	assert.NotEmpty(t, body["id"])

	cookie := sessionCookie(t, w.Result().Cookies())
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, int((48 * time.Hour).Seconds()), cookie.MaxAge)

	claims, err := tm.Validate(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, body["id"], claims.UserID)
	assert.Equal(t, "user", claims.Role)

	// The stored password is a bcrypt hash, never the plaintext.
	var stored models.User
	require.NoError(t, db.First(&stored, "email = ?", "a@b.com").Error)
	assert.NotEqual(t, "Abc12", stored.Password)
	assert.NoError(t, stored.CheckPassword("Abc12"))
}

func TestSignupMissingFields(t *testing.T) {
	db := setupTestDB(t)

	c, w := newJSONContext(t, "POST", "/api/users/signup", gin.H{"email": "a@b.com"})
	Signup(db, testTokenManager())(c)

	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "All fields are required.", decodeBody(t, w)["error"])
}

func TestSignupDuplicateEmailAndUsername(t *testing.T) {
	db := setupTestDB(t)
	seedUser(t, db, "a@b.com", "u1")

	c, w := newJSONContext(t, "POST", "/api/users/signup", gin.H{
		"email":    "a@b.com",
		"password": "Abc12",
		"username": "fresh",
	})
	Signup(db, testTokenManager())(c)
	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "Email is already in use.", decodeBody(t, w)["error"])

	c, w = newJSONContext(t, "POST", "/api/users/signup", gin.H{
		"email":    "fresh@b.com",
		"password": "Abc12",
		"username": "u1",
	})
	Signup(db, testTokenManager())(c)
	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "Username is already in use.", decodeBody(t, w)["error"])
}

func TestSignupInvalidEmail(t *testing.T) {
	db := setupTestDB(t)

	c, w := newJSONContext(t, "POST", "/api/users/signup", gin.H{
		"email":    "not-an-email",
		"password": "Abc12",
		"username": "u1",
	})
	Signup(db, testTokenManager())(c)

	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "Email address is incorrect.", decodeBody(t, w)["error"])
}

func TestSignupWeakPassword(t *testing.T) {
	db := setupTestDB(t)

	for _, password := range []string{"abc12", "Abcde", "Ab1"} {
		c, w := newJSONContext(t, "POST", "/api/users/signup", gin.H{
			"email":    "a@b.com",
			"password": password,
			"username": "u1",
		})
		Signup(db, testTokenManager())(c)

		assert.Equal(t, 400, w.Code)
		assert.Equal(t, "Password is too weak.", decodeBody(t, w)["error"])
	}
}

func TestLoginSuccess(t *testing.T) {
	db := setupTestDB(t)
	seedUser(t, db, "a@b.com", "u1")

	c, w := newJSONContext(t, "POST", "/api/users/login", gin.H{
		"email":    "a@b.com",
		"password": "Abc12",
	})
	Login(db, testTokenManager())(c)

	assert.Equal(t, 200, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "a@b.com", body["email"])
	assert.Equal(t, "u1", body["username"])
	sessionCookie(t, w.Result().Cookies())
}

func TestLoginFailures(t *testing.T) {
	db := setupTestDB(t)
	seedUser(t, db, "a@b.com", "u1")

	c, w := newJSONContext(t, "POST", "/api/users/login", gin.H{"email": "a@b.com"})
	Login(db, testTokenManager())(c)
	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "Please fill in your email and password.", decodeBody(t, w)["error"])

	c, w = newJSONContext(t, "POST", "/api/users/login", gin.H{
		"email":    "unknown@b.com",
		"password": "Abc12",
	})
	Login(db, testTokenManager())(c)
	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "Check your email address.", decodeBody(t, w)["error"])

	c, w = newJSONContext(t, "POST", "/api/users/login", gin.H{
		"email":    "a@b.com",
		"password": "Wrong1",
	})
	Login(db, testTokenManager())(c)
	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "Password is incorrect.", decodeBody(t, w)["error"])
}

func TestLogoutExpiresCookie(t *testing.T) {
	c, w := newJSONContext(t, "POST", "/api/users/logout", nil)
	Logout()(c)

	assert.Equal(t, 200, w.Code)
	cookie := sessionCookie(t, w.Result().Cookies())
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestCheckAuth(t *testing.T) {
	db := setupTestDB(t)
	tm := testTokenManager()
	user := seedUser(t, db, "a@b.com", "u1")

	// No cookie at all.
	c, w := newJSONContext(t, "GET", "/api/users/check-auth", nil)
	CheckAuth(db, tm)(c)
	assert.Equal(t, 401, w.Code)
	assert.Equal(t, "No token provided, authorization denied", decodeBody(t, w)["error"])

	// A token for a user that no longer exists.
	orphan, err := tm.Generate(uuid.NewString(), "user")
	require.NoError(t, err)
	c, w = newJSONContext(t, "GET", "/api/users/check-auth", nil)
	c.Request.AddCookie(&http.Cookie{Name: middleware.CookieName, Value: orphan})
	CheckAuth(db, tm)(c)
	assert.Equal(t, 404, w.Code)
	assert.Equal(t, "User not found", decodeBody(t, w)["error"])

	// The happy path returns the user without the password hash.
	token, err := tm.Generate(user.ID.String(), user.Role)
	require.NoError(t, err)
	c, w = newJSONContext(t, "GET", "/api/users/check-auth", nil)
	c.Request.AddCookie(&http.Cookie{Name: middleware.CookieName, Value: token})
	CheckAuth(db, tm)(c)
	assert.Equal(t, 200, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "a@b.com", body["email"])
	assert.NotContains(t, body, "password")
}

func TestCheckCookieAlwaysResponds200(t *testing.T) {
	tm := testTokenManager()

	c, w := newJSONContext(t, "GET", "/api/users/check-cookie", nil)
	CheckCookie(tm)(c)
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["isValid"])

	c, w = newJSONContext(t, "GET", "/api/users/check-cookie", nil)
	c.Request.AddCookie(&http.Cookie{Name: middleware.CookieName, Value: "garbage"})
	CheckCookie(tm)(c)
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["isValid"])

	token, err := tm.Generate(uuid.NewString(), "user")
	require.NoError(t, err)
	c, w = newJSONContext(t, "GET", "/api/users/check-cookie", nil)
	c.Request.AddCookie(&http.Cookie{Name: middleware.CookieName, Value: token})
	CheckCookie(tm)(c)
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["isValid"])
}

func TestUpdateUserRespondsWithPreviousRecordAndRehashes(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "a@b.com", "u1")

	c, w := newJSONContext(t, "PATCH", "/api/users/"+user.ID.String(), gin.H{
		"username": "renamed",
		"password": "Newpass1",
	})
	c.Params = gin.Params{{Key: "id", Value: user.ID.String()}}
	UpdateUser(db)(c)

	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "u1", decodeBody(t, w)["username"])

	var updated models.User
	require.NoError(t, db.First(&updated, "id = ?", user.ID).Error)
	assert.Equal(t, "renamed", updated.Username)
	assert.NoError(t, updated.CheckPassword("Newpass1"))
	assert.Error(t, updated.CheckPassword("Abc12"))
}

func TestUpdateUserWithoutPasswordKeepsHash(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "a@b.com", "u1")

	c, w := newJSONContext(t, "PATCH", "/api/users/"+user.ID.String(), gin.H{
		"username": "renamed",
	})
	c.Params = gin.Params{{Key: "id", Value: user.ID.String()}}
	UpdateUser(db)(c)

	assert.Equal(t, 200, w.Code)

	var updated models.User
	require.NoError(t, db.First(&updated, "id = ?", user.ID).Error)
	assert.NoError(t, updated.CheckPassword("Abc12"))
}

func TestUserLookupsUseOneNotFoundMessage(t *testing.T) {
	db := setupTestDB(t)

	for _, id := range []string{"abc", uuid.NewString()} {
		c, w := newJSONContext(t, "GET", "/api/users/"+id, nil)
		c.Params = gin.Params{{Key: "id", Value: id}}
		GetUser(db)(c)

		assert.Equal(t, 404, w.Code)
		assert.Equal(t, "No such user", decodeBody(t, w)["error"])
	}
}

func TestDeleteUser(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "a@b.com", "u1")

	c, w := newJSONContext(t, "DELETE", "/api/users/"+user.ID.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: user.ID.String()}}
	DeleteUser(db)(c)

	assert.Equal(t, 200, w.Code)

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(0), count)
}
