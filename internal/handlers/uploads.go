package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/vcsrentals/rentals-backend/internal/services"
)

const maxUploadFiles = 5

// UploadImages accepts up to five JPEG/PNG files under the "images" field and
// returns the stored URLs.
func UploadImages() gin.HandlerFunc {
	return func(c *gin.Context) {
		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(400, gin.H{"error": "No files uploaded"})
			return
		}

		files := form.File["images"]
		if len(files) == 0 {
			c.JSON(400, gin.H{"error": "No files uploaded"})
			return
		}
		if len(files) > maxUploadFiles {
			c.JSON(400, gin.H{"error": fmt.Sprintf("A maximum of %d images is allowed", maxUploadFiles)})
			return
		}

		for _, file := range files {
			if !services.AllowedImageTypes[file.Header.Get("Content-Type")] {
				c.JSON(400, gin.H{"error": "Invalid file type. Only JPEG and PNG are allowed."})
				return
			}
			if file.Size > services.MaxImageSize {
				c.JSON(400, gin.H{"error": fmt.Sprintf("File %s exceeds the 5 MB limit", file.Filename)})
				return
			}
		}

		imageURLs := make([]string, 0, len(files))
		for _, file := range files {
			url, err := services.UploadImage(file, "listings")
			if err != nil {
				c.JSON(500, gin.H{"error": "Internal Server Error"})
				return
			}
			imageURLs = append(imageURLs, url)
		}

		c.JSON(200, gin.H{"images": imageURLs})
	}
}
