package handlers

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vcsrentals/rentals-backend/internal/models"
	"github.com/vcsrentals/rentals-backend/internal/services"
	"github.com/vcsrentals/rentals-backend/pkg/utils"
)

// overlapCondition is the booking-conflict predicate. The boundary-equality
// clauses are deliberate: a request starting or ending exactly on an existing
// reservation's boundary is a conflict, even where the half-open test alone
// would let the end == existing-start case through.
const overlapCondition = "(start_date < ? AND end_date > ?) OR start_date = ? OR end_date = ?"

func findOverlapping(db *gorm.DB, listingID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	query := db.Where("listing_id = ?", listingID).
		Where(overlapCondition, end, start, start, end)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var conflict models.Reservation
	err := query.First(&conflict).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

func notifyReservationEvent(c *gin.Context, hub *services.Hub, eventType string, reservation *models.Reservation) {
	if err := services.PublishReservationEvent(c.Request.Context(), eventType, reservation); err != nil {
		log.Printf("Failed to publish reservation event: %v", err)
	}
	if hub != nil {
		hub.BroadcastReservationEvent(eventType, reservation)
	}
}

// GetReservations returns every reservation. Admins get the full records with
// the user and listing attached; everyone else gets a projection with the
// user and status stripped.
func GetReservations(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("userRole") == models.RoleAdmin {
			var reservations []models.Reservation
			if err := db.Preload("User").Preload("Listing").
				Order("created_at desc").Find(&reservations).Error; err != nil {
				c.JSON(500, gin.H{"error": "Failed to fetch reservations"})
				return
			}
			c.JSON(200, reservations)
			return
		}

		var reservations []models.Reservation
		if err := db.Order("created_at desc").Find(&reservations).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch reservations"})
			return
		}

		redacted := make([]gin.H, len(reservations))
		for i, r := range reservations {
			redacted[i] = gin.H{
				"id":        r.ID,
				"listing":   r.ListingID,
				"start":     r.StartDate,
				"end":       r.EndDate,
				"createdAt": r.CreatedAt,
				"updatedAt": r.UpdatedAt,
			}
		}
		c.JSON(200, redacted)
	}
}

// GetReservation returns a single reservation
func GetReservation(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(404, gin.H{"error": "Invalid ID"})
			return
		}

		var reservation models.Reservation
		if err := db.First(&reservation, "id = ?", id).Error; err != nil {
			c.JSON(404, gin.H{"error": "No such reservation"})
			return
		}

		c.JSON(200, reservation)
	}
}

// GetMyReservations returns the caller's reservations with listings attached
func GetMyReservations(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := uuid.Parse(c.GetString("userId"))
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid user ID"})
			return
		}

		var reservations []models.Reservation
		if err := db.Preload("Listing").
			Where("user_id = ?", userID).Find(&reservations).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch reservations"})
			return
		}

		c.JSON(200, reservations)
	}
}

// GetReservationsByListingID returns the reservations held against a listing
func GetReservationsByListingID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(404, gin.H{"error": "Invalid ID"})
			return
		}

		var reservations []models.Reservation
		if err := db.Where("listing_id = ?", id).Find(&reservations).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch reservations"})
			return
		}

		c.JSON(200, reservations)
	}
}

type ReservationInput struct {
	Listing string `json:"listing"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Status  string `json:"status"`
}

// CreateReservation validates a booking request end to end: dates, range,
// listing existence and availability, duration bounds, then the overlap check
// against the listing's existing reservations.
func CreateReservation(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ReservationInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		emptyFields := []string{}
		if input.Listing == "" {
			emptyFields = append(emptyFields, "listing")
		}
		if input.Start == "" {
			emptyFields = append(emptyFields, "start")
		}
		if input.End == "" {
			emptyFields = append(emptyFields, "end")
		}
		if len(emptyFields) > 0 {
			c.JSON(400, gin.H{"error": "Please fill in all the fields", "emptyFields": emptyFields})
			return
		}

		listingID, err := uuid.Parse(input.Listing)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid listing ID"})
			return
		}

		userID, err := uuid.Parse(c.GetString("userId"))
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid user ID"})
			return
		}

		startDate, okStart := utils.ParseDate(input.Start)
		endDate, okEnd := utils.ParseDate(input.End)
		if !okStart || !okEnd {
			c.JSON(400, gin.H{"error": "Invalid date format"})
			return
		}

		if !endDate.After(startDate) {
			c.JSON(400, gin.H{"error": "'End' date must be after 'start' date"})
			return
		}

		var listing models.Listing
		if err := db.First(&listing, "id = ?", listingID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Listing does not exist"})
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			c.JSON(404, gin.H{"error": "User does not exist"})
			return
		}

		if !listing.Available {
			c.JSON(400, gin.H{"error": "Listing is not available for reservation"})
			return
		}

		duration := utils.DurationDays(startDate, endDate)
		if duration < listing.MinDuration || duration > listing.MaxDuration {
			c.JSON(400, gin.H{
				"error": fmt.Sprintf(
					"Reservation duration must be between %d and %d days",
					listing.MinDuration, listing.MaxDuration,
				),
			})
			return
		}

		overlapping, err := findOverlapping(db, listingID, startDate, endDate, nil)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to check existing reservations"})
			return
		}
		if overlapping {
			c.JSON(400, gin.H{"error": "The listing is already reserved for the selected dates"})
			return
		}

		status := models.ReservationStatus(input.Status)
		if status == "" {
			status = models.ReservationStatusPending
		}

		reservation := models.Reservation{
			ListingID: listingID,
			UserID:    userID,
			StartDate: startDate,
			EndDate:   endDate,
			Status:    status,
		}

		if err := db.Create(&reservation).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create reservation"})
			return
		}

		notifyReservationEvent(c, hub, "reservation.created", &reservation)
		c.JSON(200, reservation)
	}
}

type ReservationUpdateInput struct {
	Listing *string `json:"listing"`
	Start   *string `json:"start"`
	End     *string `json:"end"`
	Status  *string `json:"status"`
}

// UpdateReservation re-runs the range and overlap checks only when the dates
// or the listing change; the overlap check excludes the record being updated.
func UpdateReservation(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(404, gin.H{"error": "Invalid reservation ID"})
			return
		}

		var input ReservationUpdateInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var newListingID *uuid.UUID
		if input.Listing != nil {
			parsed, err := uuid.Parse(*input.Listing)
			if err != nil {
				c.JSON(400, gin.H{"error": "Invalid listing ID"})
				return
			}
			newListingID = &parsed
		}

		var reservation models.Reservation
		if err := db.First(&reservation, "id = ?", id).Error; err != nil {
			c.JSON(404, gin.H{"error": "No such reservation"})
			return
		}

		if input.Start != nil || input.End != nil {
			// Changing the range means supplying both ends of it.
			var startValue, endValue string
			if input.Start != nil {
				startValue = *input.Start
			}
			if input.End != nil {
				endValue = *input.End
			}

			startDate, okStart := utils.ParseDate(startValue)
			endDate, okEnd := utils.ParseDate(endValue)
			if !okStart || !okEnd {
				c.JSON(400, gin.H{"error": "Invalid date format"})
				return
			}

			if !endDate.After(startDate) {
				c.JSON(400, gin.H{"error": "'End' date must be after 'start' date"})
				return
			}

			targetListing := reservation.ListingID
			if newListingID != nil {
				targetListing = *newListingID
			}

			overlapping, err := findOverlapping(db, targetListing, startDate, endDate, &id)
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to check existing reservations"})
				return
			}
			if overlapping {
				c.JSON(400, gin.H{"error": "The listing is already reserved for the selected dates"})
				return
			}

			reservation.StartDate = startDate
			reservation.EndDate = endDate
		}

		if newListingID != nil {
			reservation.ListingID = *newListingID
		}
		if input.Status != nil {
			reservation.Status = models.ReservationStatus(*input.Status)
		}

		if err := db.Save(&reservation).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update reservation"})
			return
		}

		var updated models.Reservation
		if err := db.Preload("Listing").First(&updated, "id = ?", id).Error; err != nil {
			c.JSON(404, gin.H{"error": "No such reservation"})
			return
		}

		notifyReservationEvent(c, hub, "reservation.updated", &updated)
		c.JSON(200, updated)
	}
}

// DeleteReservation removes a reservation. The listing's availability flag is
// left untouched.
func DeleteReservation(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(404, gin.H{"error": "Invalid reservation ID"})
			return
		}

		var reservation models.Reservation
		if err := db.First(&reservation, "id = ?", id).Error; err != nil {
			c.JSON(404, gin.H{"error": "No such reservation"})
			return
		}

		if err := db.Delete(&reservation).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete reservation"})
			return
		}

		notifyReservationEvent(c, hub, "reservation.deleted", &reservation)
		c.JSON(200, reservation)
	}
}
