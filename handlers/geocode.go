package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-disasterai/geocode"
)

type geocodeRequest struct {
	LocationName string `json:"location_name" binding:"required"`
}

type batchGeocodeRequest struct {
	Locations []string `json:"locations" binding:"required"`
}

// Geocode resolves a single location name to coordinates.
func Geocode(c *gin.Context) {
	var req geocodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	result, err := geocode.GeocodeLocation(c.Request.Context(), req.LocationName)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "location not found: " + req.LocationName})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GeocodeBatch resolves up to the batch cap of locations, reporting failures
// alongside successes.
func GeocodeBatch(c *gin.Context) {
	var req batchGeocodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	if len(req.Locations) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "locations must not be empty"})
		return
	}

	c.JSON(http.StatusOK, geocode.GeocodeBatch(c.Request.Context(), req.Locations))
}
