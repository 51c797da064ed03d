package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-disasterai/render"
	"go-disasterai/store"
)

// CurrentOverlays returns the derived map model for the current analysis:
// one styled overlay per region plus the viewport that frames them all. The
// dashboard draws this directly instead of re-deriving styles client-side.
func CurrentOverlays(c *gin.Context, results *store.ResultStore) {
	res, ok := results.Current()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no analysis has been published yet"})
		return
	}

	layers := render.BuildOverlays(res.GeospatialData)
	payload := gin.H{
		"task_id":  res.TaskID,
		"overlays": layers.Overlays,
	}
	if vp, ok := render.FitViewport(res.GeospatialData, 0, 0); ok {
		payload["viewport"] = vp
	}
	c.JSON(http.StatusOK, payload)
}
