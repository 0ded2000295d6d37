package handlers

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vcsrentals/rentals-backend/internal/models"
	"github.com/vcsrentals/rentals-backend/internal/services"
)

// GetTestimonials returns every testimonial, newest first
func GetTestimonials(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var testimonials []models.Testimonial
		if err := db.Order("created_at desc").Find(&testimonials).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch testimonials"})
			return
		}
		c.JSON(200, testimonials)
	}
}

// GetLatestTestimonials returns the ten newest testimonials for the public
// landing page, served from the Redis cache when warm.
func GetLatestTestimonials(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cached := services.GetCachedLatestTestimonials(c.Request.Context()); cached != nil {
			c.Data(200, "application/json; charset=utf-8", cached)
			return
		}

		var testimonials []models.Testimonial
		if err := db.Order("created_at desc").Limit(10).Find(&testimonials).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch testimonials"})
			return
		}

		if data, err := json.Marshal(testimonials); err == nil {
			services.CacheLatestTestimonials(c.Request.Context(), data)
		}

		c.JSON(200, testimonials)
	}
}

// GetTestimonial returns a single testimonial
func GetTestimonial(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(404, gin.H{"error": "Invalid ID"})
			return
		}

		var testimonial models.Testimonial
		if err := db.First(&testimonial, "id = ?", id).Error; err != nil {
			c.JSON(404, gin.H{"error": "Testimonial not found"})
			return
		}

		c.JSON(200, testimonial)
	}
}

type TestimonialInput struct {
	CustomerName string `json:"customer_name"`
	PhotoURL     string `json:"photo_url"`
	Text         string `json:"text"`
}

// CreateTestimonial creates a testimonial
func CreateTestimonial(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input TestimonialInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		emptyFields := []string{}
		if input.CustomerName == "" {
			emptyFields = append(emptyFields, "customer_name")
		}
		if input.PhotoURL == "" {
			emptyFields = append(emptyFields, "photo_url")
		}
		if input.Text == "" {
			emptyFields = append(emptyFields, "text")
		}
		if len(emptyFields) > 0 {
			c.JSON(400, gin.H{"error": "Please fill in all the fields", "emptyFields": emptyFields})
			return
		}

		testimonial := models.Testimonial{
			CustomerName: input.CustomerName,
			PhotoURL:     input.PhotoURL,
			Text:         input.Text,
		}

		if err := db.Create(&testimonial).Error; err != nil {
			c.JSON(400, gin.H{"error": "Failed to create testimonial"})
			return
		}

		services.InvalidateLatestTestimonials(c.Request.Context())
		c.JSON(200, testimonial)
	}
}

// UpdateTestimonial applies a partial update and responds with the record as
// it was before the update.
func UpdateTestimonial(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(404, gin.H{"error": "Invalid ID"})
			return
		}

		var input TestimonialInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var testimonial models.Testimonial
		if err := db.First(&testimonial, "id = ?", id).Error; err != nil {
			c.JSON(404, gin.H{"error": "Testimonial not found"})
			return
		}
		before := testimonial

		if input.CustomerName != "" {
			testimonial.CustomerName = input.CustomerName
		}
		if input.PhotoURL != "" {
			testimonial.PhotoURL = input.PhotoURL
		}
		if input.Text != "" {
			testimonial.Text = input.Text
		}

		if err := db.Save(&testimonial).Error; err != nil {
			c.JSON(400, gin.H{"error": "Failed to update testimonial"})
			return
		}

		services.InvalidateLatestTestimonials(c.Request.Context())
		c.JSON(200, before)
	}
}

// DeleteTestimonial removes a testimonial
func DeleteTestimonial(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(404, gin.H{"error": "Invalid ID"})
			return
		}

		var testimonial models.Testimonial
		if err := db.First(&testimonial, "id = ?", id).Error; err != nil {
			c.JSON(404, gin.H{"error": "Testimonial not found"})
			return
		}

		if err := db.Delete(&testimonial).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete testimonial"})
			return
		}

		services.InvalidateLatestTestimonials(c.Request.Context())
		c.JSON(200, testimonial)
	}
}
