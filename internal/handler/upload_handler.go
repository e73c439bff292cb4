package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tripmate/internal/middleware"
	"tripmate/internal/repository"
	"tripmate/pkg/cloudinary"
)

type UploadHandler struct {
	cloud    cloudinary.Client
	tripRepo *repository.TripRepository
}

func NewUploadHandler(cloud cloudinary.Client, tripRepo *repository.TripRepository) *UploadHandler {
	return &UploadHandler{cloud: cloud, tripRepo: tripRepo}
}

// UploadChatMedia uploads an image for trip chat. Returns URL.
func (h *UploadHandler) UploadChatMedia(c *gin.Context) {
	userID := middleware.GetUserID(c)
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	folder := "Tripmate/chat/" + strconv.FormatUint(uint64(userID), 10)
	publicID := "img_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:16]

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer f.Close()

	url, _, err := h.cloud.UploadImage(c.Request.Context(), f, folder, publicID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// UploadTripCover uploads a trip cover image and stores its URL on the trip.
func (h *UploadHandler) UploadTripCover(c *gin.Context) {
	if requireAdmin(c, h.tripRepo) == nil {
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	tid := tripID(c)
	folder := "Tripmate/trips/" + strconv.FormatUint(uint64(tid), 10)
	publicID := "cover_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:16]

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer f.Close()

	url, _, err := h.cloud.UploadImage(c.Request.Context(), f, folder, publicID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	t, err := h.tripRepo.GetByID(tid)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "trip not found"})
		return
	}
	t.CoverImageURL = url
	if err := h.tripRepo.Update(t); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
