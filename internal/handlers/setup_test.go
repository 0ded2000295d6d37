package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vcsrentals/rentals-backend/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Listing{},
		&models.Reservation{},
		&models.Testimonial{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email, username string) models.User {
	t.Helper()
	user := models.User{
		Email:    email,
		Username: username,
		Password: "Abc12",
		Role:     models.RoleUser,
	}
	require.NoError(t, user.HashPassword())
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedListing(t *testing.T, db *gorm.DB, available bool, minDuration, maxDuration int) models.Listing {
	t.Helper()
	listing := models.Listing{
		Title:        "VW Transporter",
		Description:  "A reliable van",
		Photos:       []string{"https://example.com/van.jpg"},
		Price:        45,
		Available:    available,
		MinDuration:  minDuration,
		MaxDuration:  maxDuration,
		Extras:       []string{"GPS"},
		Year:         2019,
		Size:         "L",
		Transmission: "manual",
		FuelType:     "diesel",
	}
	require.NoError(t, db.Create(&listing).Error)
	return listing
}

// newJSONContext builds a test context carrying an optional JSON payload.
func newJSONContext(t *testing.T, method, target string, payload interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func decodeBodySlice(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var body []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
