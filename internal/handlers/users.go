package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vcsrentals/rentals-backend/internal/middleware"
	"github.com/vcsrentals/rentals-backend/internal/models"
	"github.com/vcsrentals/rentals-backend/pkg/utils"
)

type SignupInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func setSessionCookie(c *gin.Context, tm *utils.TokenManager, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.CookieName, token, int(tm.MaxAge().Seconds()), "/", "", false, true)
}

// duplicateFieldMessage translates a unique-constraint violation racing past
// the pre-checks into a message naming the offending field.
func duplicateFieldMessage(err error) string {
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "duplicate") && !strings.Contains(msg, "unique") {
		return ""
	}
	if strings.Contains(msg, "email") {
		return "Email is already in use."
	}
	if strings.Contains(msg, "username") {
		return "Username is already in use."
	}
	return ""
}

// Signup creates an account, hashes the password, and opens a session.
func Signup(db *gorm.DB, tm *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input SignupInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if input.Email == "" || input.Password == "" || input.Username == "" {
			c.JSON(400, gin.H{"error": "All fields are required."})
			return
		}

		var existing models.User
		if err := db.Where("email = ?", input.Email).First(&existing).Error; err == nil {
			c.JSON(400, gin.H{"error": "Email is already in use."})
			return
		}
		if err := db.Where("username = ?", input.Username).First(&existing).Error; err == nil {
			c.JSON(400, gin.H{"error": "Username is already in use."})
			return
		}

		if !utils.IsEmail(input.Email) {
			c.JSON(400, gin.H{"error": "Email address is incorrect."})
			return
		}
		if !utils.IsStrongPassword(input.Password) {
			c.JSON(400, gin.H{"error": "Password is too weak."})
			return
		}

		user := models.User{
			Email:    input.Email,
			Username: input.Username,
			Password: input.Password,
			Role:     models.RoleUser,
		}
		if err := user.HashPassword(); err != nil {
			c.JSON(500, gin.H{"error": "Failed to hash password"})
			return
		}

		if err := db.Create(&user).Error; err != nil {
			if msg := duplicateFieldMessage(err); msg != "" {
				c.JSON(400, gin.H{"error": msg})
				return
			}
			c.JSON(500, gin.H{"error": "Failed to create user"})
			return
		}

		token, err := tm.Generate(user.ID.String(), user.Role)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to generate token"})
			return
		}
		setSessionCookie(c, tm, token)

		c.JSON(200, gin.H{"id": user.ID, "email": user.Email, "username": user.Username})
	}
}

// Login verifies credentials and opens a session. An unknown email gets a
// generic check-your-email message so the response never confirms which of
// the two credentials was wrong.
func Login(db *gorm.DB, tm *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if input.Email == "" || input.Password == "" {
			c.JSON(400, gin.H{"error": "Please fill in your email and password."})
			return
		}

		var user models.User
		if err := db.Where("email = ?", input.Email).First(&user).Error; err != nil {
			c.JSON(400, gin.H{"error": "Check your email address."})
			return
		}

		if err := user.CheckPassword(input.Password); err != nil {
			c.JSON(400, gin.H{"error": "Password is incorrect."})
			return
		}

		token, err := tm.Generate(user.ID.String(), user.Role)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to generate token"})
			return
		}
		setSessionCookie(c, tm, token)

		c.JSON(200, gin.H{"email": user.Email, "username": user.Username})
	}
}

// Logout clears the session by replacing the cookie with an expired one
func Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(middleware.CookieName, "", -1, "/", "", false, true)
		c.Status(200)
	}
}

// CheckAuth resolves the session cookie to its user record. It authenticates
// on its own because its failure bodies differ from the shared gate's bare
// statuses.
func CheckAuth(db *gorm.DB, tm *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(middleware.CookieName)
		if err != nil || tokenString == "" {
			c.JSON(401, gin.H{"error": "No token provided, authorization denied"})
			return
		}

		claims, err := tm.Validate(tokenString)
		if err != nil {
			c.JSON(401, gin.H{"error": err.Error()})
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		c.JSON(200, user)
	}
}

// CheckCookie reports whether the session cookie holds a valid token. Always
// responds 200; the body carries the verdict.
func CheckCookie(tm *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(middleware.CookieName)
		if err != nil || tokenString == "" {
			c.JSON(200, gin.H{"isValid": false})
			return
		}

		if _, err := tm.Validate(tokenString); err != nil {
			c.JSON(200, gin.H{"isValid": false})
			return
		}

		c.JSON(200, gin.H{"isValid": true})
	}
}

// GetUsers returns every user, newest first
func GetUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []models.User
		if err := db.Order("created_at desc").Find(&users).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch users"})
			return
		}
		c.JSON(200, users)
	}
}

// GetUser returns a single user
func GetUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(404, gin.H{"error": "No such user"})
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", id).Error; err != nil {
			c.JSON(404, gin.H{"error": "No such user"})
			return
		}

		c.JSON(200, user)
	}
}

type UserUpdateInput struct {
	Email    *string `json:"email"`
	Username *string `json:"username"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

// UpdateUser applies a partial update, rehashing the password only when the
// payload changes it, and responds with the record as it was before.
func UpdateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(404, gin.H{"error": "No such user"})
			return
		}

		var input UserUpdateInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", id).Error; err != nil {
			c.JSON(404, gin.H{"error": "No such user"})
			return
		}
		before := user

		if input.Email != nil {
			user.Email = *input.Email
		}
		if input.Username != nil {
			user.Username = *input.Username
		}
		if input.Role != nil {
			user.Role = *input.Role
		}
		if input.Password != nil {
			user.Password = *input.Password
			if err := user.HashPassword(); err != nil {
				c.JSON(500, gin.H{"error": "Failed to hash password"})
				return
			}
		}

		if err := db.Save(&user).Error; err != nil {
			if msg := duplicateFieldMessage(err); msg != "" {
				c.JSON(400, gin.H{"error": msg})
				return
			}
			c.JSON(500, gin.H{"error": "Failed to update user"})
			return
		}

		c.JSON(200, before)
	}
}

// DeleteUser removes a user
func DeleteUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(404, gin.H{"error": "No such user"})
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", id).Error; err != nil {
			c.JSON(404, gin.H{"error": "No such user"})
			return
		}

		if err := db.Delete(&user).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete user"})
			return
		}

		c.JSON(200, user)
	}
}
