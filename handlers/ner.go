package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-disasterai/ner"
	"go-disasterai/types"
)

type nerRequest struct {
	Text   string              `json:"text" binding:"required"`
	Labels []types.EntityLabel `json:"labels,omitempty"`
}

// ExtractEntities runs entity extraction over free text, optionally filtered
// to a label subset.
func ExtractEntities(c *gin.Context) {
	var req nerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	entities := ner.Extract(c.Request.Context(), req.Text)
	if len(req.Labels) > 0 {
		wanted := make(map[types.EntityLabel]bool, len(req.Labels))
		for _, l := range req.Labels {
			wanted[l] = true
		}
		filtered := entities[:0]
		for _, e := range entities {
			if wanted[e.Label] {
				filtered = append(filtered, e)
			}
		}
		entities = filtered
	}

	c.JSON(http.StatusOK, gin.H{
		"entities": entities,
		"count":    len(entities),
	})
}

// ExtractLocations returns only location entity texts from form-posted text.
func ExtractLocations(c *gin.Context) {
	text := c.PostForm("text")
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	locations := []string{}
	for _, e := range ner.Extract(c.Request.Context(), text) {
		if e.Label == types.LabelLocation {
			locations = append(locations, e.Text)
		}
	}

	c.JSON(http.StatusOK, gin.H{"locations": locations, "count": len(locations)})
}
