package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vcsrentals/rentals-backend/internal/models"
)

type ListingInput struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Photos       []string `json:"photos"`
	Price        float64  `json:"price"`
	Available    *bool    `json:"available"`
	MinDuration  *int     `json:"min_duration"`
	MaxDuration  *int     `json:"max_duration"`
	Extras       []string `json:"extras"`
	Year         int      `json:"year"`
	Size         string   `json:"size"`
	Transmission string   `json:"transmission"`
	FuelType     string   `json:"fuelType"`
}

// GetListings returns every listing, newest first
func GetListings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var listings []models.Listing
		if err := db.Order("created_at desc").Find(&listings).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch listings"})
			return
		}
		c.JSON(200, listings)
	}
}

// GetListing returns a single listing
func GetListing(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(404, gin.H{"error": "Invalid ID"})
			return
		}

		var listing models.Listing
		if err := db.First(&listing, "id = ?", id).Error; err != nil {
			c.JSON(404, gin.H{"error": "No such listing"})
			return
		}

		c.JSON(200, listing)
	}
}

// CreateListing creates a new listing after checking every field is present
func CreateListing(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ListingInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		emptyFields := []string{}
		if input.Title == "" {
			emptyFields = append(emptyFields, "title")
		}
		if input.Description == "" {
			emptyFields = append(emptyFields, "description")
		}
		if len(input.Photos) == 0 {
			emptyFields = append(emptyFields, "photos")
		}
		if input.Price == 0 {
			emptyFields = append(emptyFields, "price")
		}
		if input.Available == nil {
			emptyFields = append(emptyFields, "available")
		}
		if input.MinDuration == nil {
			emptyFields = append(emptyFields, "min_duration")
		}
		if input.MaxDuration == nil {
			emptyFields = append(emptyFields, "max_duration")
		}
		if input.Extras == nil {
			emptyFields = append(emptyFields, "extras")
		}
		if input.Year == 0 {
			emptyFields = append(emptyFields, "year")
		}
		if input.Size == "" {
			emptyFields = append(emptyFields, "size")
		}
		if input.Transmission == "" {
			emptyFields = append(emptyFields, "transmission")
		}
		if input.FuelType == "" {
			emptyFields = append(emptyFields, "fuelType")
		}

		if len(emptyFields) > 0 {
			c.JSON(400, gin.H{"error": "Please fill in all the fields", "emptyFields": emptyFields})
			return
		}

		if *input.MinDuration > *input.MaxDuration {
			c.JSON(400, gin.H{"error": "min_duration cannot be greater than max_duration"})
			return
		}

		listing := models.Listing{
			Title:        input.Title,
			Description:  input.Description,
			Photos:       input.Photos,
			Price:        input.Price,
			Available:    *input.Available,
			MinDuration:  *input.MinDuration,
			MaxDuration:  *input.MaxDuration,
			Extras:       input.Extras,
			Year:         input.Year,
			Size:         input.Size,
			Transmission: input.Transmission,
			FuelType:     input.FuelType,
		}

		if err := db.Create(&listing).Error; err != nil {
			c.JSON(400, gin.H{"error": "Failed to create listing"})
			return
		}

		c.JSON(200, listing)
	}
}

// UpdateListing applies a partial update and, matching the store's update
// semantics, responds with the listing as it was before the update.
func UpdateListing(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(404, gin.H{"error": "Invalid ID"})
			return
		}

		var input ListingInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var listing models.Listing
		if err := db.First(&listing, "id = ?", id).Error; err != nil {
			c.JSON(404, gin.H{"error": "No such listing"})
			return
		}
		before := listing

		if input.Title != "" {
			listing.Title = input.Title
		}
		if input.Description != "" {
			listing.Description = input.Description
		}
		if input.Photos != nil {
			listing.Photos = input.Photos
		}
		if input.Price != 0 {
			listing.Price = input.Price
		}
		if input.Available != nil {
			listing.Available = *input.Available
		}
		if input.MinDuration != nil {
			listing.MinDuration = *input.MinDuration
		}
		if input.MaxDuration != nil {
			listing.MaxDuration = *input.MaxDuration
		}
		if input.Extras != nil {
			listing.Extras = input.Extras
		}
		if input.Year != 0 {
			listing.Year = input.Year
		}
		if input.Size != "" {
			listing.Size = input.Size
		}
		if input.Transmission != "" {
			listing.Transmission = input.Transmission
		}
		if input.FuelType != "" {
			listing.FuelType = input.FuelType
		}

		if listing.MinDuration > listing.MaxDuration {
			c.JSON(400, gin.H{"error": "min_duration cannot be greater than max_duration"})
			return
		}

		if err := db.Save(&listing).Error; err != nil {
			c.JSON(400, gin.H{"error": "Failed to update listing"})
			return
		}

		c.JSON(200, before)
	}
}

// DeleteListing removes a listing and cascade-deletes its reservations in one
// transaction, so callers never observe orphaned reservations.
func DeleteListing(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(404, gin.H{"error": "Invalid ID"})
			return
		}

		var listing models.Listing
		if err := db.First(&listing, "id = ?", id).Error; err != nil {
			c.JSON(404, gin.H{"error": "No such listing"})
			return
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("listing_id = ?", id).Delete(&models.Reservation{}).Error; err != nil {
				return err
			}
			return tx.Delete(&listing).Error
		})
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete listing"})
			return
		}

		c.JSON(200, listing)
	}
}
