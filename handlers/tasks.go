package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-disasterai/store"
)

// GetTask returns the current state of an analysis task, including its
// result once completed.
func GetTask(c *gin.Context, tasks *store.TaskStore) {
	taskID := c.Param("id")
	task, ok := tasks.GetTask(c.Request.Context(), taskID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found: " + taskID})
		return
	}
	c.JSON(http.StatusOK, task)
}

// DeleteTask removes a task record. Running work is not interrupted; the
// record simply stops being visible.
func DeleteTask(c *gin.Context, tasks *store.TaskStore) {
	taskID := c.Param("id")
	if !tasks.DeleteTask(c.Request.Context(), taskID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found: " + taskID})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "task deleted"})
}

// ListTasks returns recent tasks, newest first.
func ListTasks(c *gin.Context, tasks *store.TaskStore) {
	limit := queryInt(c, "limit", 50, 1, 100)
	c.JSON(http.StatusOK, tasks.ListTasks(c.Request.Context(), limit))
}

// queryInt parses an integer query param, clamping to [min, max].
func queryInt(c *gin.Context, name string, def, min, max int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}
