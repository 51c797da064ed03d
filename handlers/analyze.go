package handlers

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-disasterai/ingest"
	"go-disasterai/metrics"
	"go-disasterai/store"
	"go-disasterai/types"
)

const maxUploadMB = 50

var allowedUploadTypes = map[string]bool{
	"image/png":       true,
	"image/jpeg":      true,
	"image/webp":      true,
	"image/tiff":      true,
	"application/pdf": true,
}

// AnalyzeDocument runs a synchronous analysis. Failures inside the pipeline
// never surface here: the gate substitutes the fallback result, so the only
// error responses are bad input and duplicate submissions.
func AnalyzeDocument(c *gin.Context, gate *ingest.Gate) {
	var req types.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.AnalysisResponse{
			Success: false,
			Error:   "invalid request: " + err.Error(),
		})
		return
	}

	metrics.AnalysesTotal.Inc()
	started := time.Now()
	result, ok := gate.BeginIngestion(c.Request.Context(), req)
	metrics.AnalysisDurationMs.Observe(float64(time.Since(started).Milliseconds()))
	if !ok {
		c.JSON(http.StatusConflict, types.AnalysisResponse{
			Success: false,
			Error:   "an identical analysis is already in progress",
		})
		return
	}
	if result.ModelUsed == "fallback" {
		metrics.AnalysisFallbacksTotal.Inc()
	}

	c.JSON(http.StatusOK, types.AnalysisResponse{Success: true, Data: &result})
}

// AnalyzeUpload accepts a multipart file, validates type and size, and feeds
// it through the same pipeline as the JSON endpoint.
func AnalyzeUpload(c *gin.Context, gate *ingest.Gate) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, types.AnalysisResponse{
			Success: false,
			Error:   "missing file field",
		})
		return
	}

	contentType := file.Header.Get("Content-Type")
	if !allowedUploadTypes[contentType] {
		c.JSON(http.StatusBadRequest, types.AnalysisResponse{
			Success: false,
			Error:   fmt.Sprintf("unsupported file type: %s", contentType),
		})
		return
	}
	if file.Size > maxUploadMB*1024*1024 {
		c.JSON(http.StatusBadRequest, types.AnalysisResponse{
			Success: false,
			Error:   fmt.Sprintf("file too large, maximum size is %dMB", maxUploadMB),
		})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.AnalysisResponse{
			Success: false,
			Error:   "failed to read upload: " + err.Error(),
		})
		return
	}
	defer f.Close()

	contents, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.AnalysisResponse{
			Success: false,
			Error:   "failed to read upload: " + err.Error(),
		})
		return
	}
	log.Printf("upload received: %s (%.2fMB, %s)", file.Filename, float64(len(contents))/(1024*1024), contentType)

	req := types.AnalysisRequest{
		DocumentData:   base64.StdEncoding.EncodeToString(contents),
		MimeType:       contentType,
		AnalysisMode:   c.DefaultPostForm("analysis_mode", "comprehensive"),
		IncludeGeocode: c.DefaultPostForm("include_geocoding", "true") == "true",
		DocumentName:   file.Filename,
	}

	metrics.AnalysesTotal.Inc()
	started := time.Now()
	result, ok := gate.BeginIngestion(c.Request.Context(), req)
	metrics.AnalysisDurationMs.Observe(float64(time.Since(started).Milliseconds()))
	if !ok {
		c.JSON(http.StatusConflict, types.AnalysisResponse{
			Success: false,
			Error:   "an identical analysis is already in progress",
		})
		return
	}
	if result.ModelUsed == "fallback" {
		metrics.AnalysisFallbacksTotal.Inc()
	}

	c.JSON(http.StatusOK, types.AnalysisResponse{Success: true, Data: &result})
}

// AnalyzeAsync creates a background task and returns its ID immediately. The
// task is detached from the request context so a client disconnect does not
// cancel the analysis.
func AnalyzeAsync(c *gin.Context, gate *ingest.Gate, tasks *store.TaskStore) {
	var req types.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	taskID := tasks.CreateTask(context.Background())
	go runAnalysisTask(gate, tasks, taskID, req)

	c.JSON(http.StatusOK, types.TaskCreateResponse{
		TaskID:  taskID,
		Status:  types.TaskPending,
		Message: "Analysis task created. Use /api/tasks/{task_id} to check status.",
	})
}

// CurrentAnalysis returns the result currently driving the dashboard.
func CurrentAnalysis(c *gin.Context, results *store.ResultStore) {
	res, ok := results.Current()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no analysis has been published yet"})
		return
	}
	c.JSON(http.StatusOK, res)
}

// AnalysisHistory returns recent published results, oldest first.
func AnalysisHistory(c *gin.Context, results *store.ResultStore) {
	c.JSON(http.StatusOK, results.History())
}

func runAnalysisTask(gate *ingest.Gate, tasks *store.TaskStore, taskID string, req types.AnalysisRequest) {
	ctx := context.Background()

	processing := types.TaskProcessing
	progress := 10
	tasks.UpdateTask(ctx, taskID, store.TaskUpdate{Status: &processing, Progress: &progress})

	metrics.AnalysesTotal.Inc()
	started := time.Now()
	result, ok := gate.BeginIngestion(ctx, req)
	metrics.AnalysisDurationMs.Observe(float64(time.Since(started).Milliseconds()))
	if !ok {
		failed := types.TaskFailed
		msg := "an identical analysis is already in progress"
		tasks.UpdateTask(ctx, taskID, store.TaskUpdate{Status: &failed, Error: &msg})
		return
	}
	if result.ModelUsed == "fallback" {
		metrics.AnalysisFallbacksTotal.Inc()
	}

	done := types.TaskCompleted
	full := 100
	tasks.UpdateTask(ctx, taskID, store.TaskUpdate{Status: &done, Progress: &full, Result: &result})
	log.Printf("async analysis task %s completed (result %s)", taskID, result.TaskID)
}
