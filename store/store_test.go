package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-disasterai/types"
)

// All tests run the memory tier; Firestore needs credentials.

func TestTaskLifecycle(t *testing.T) {
	s := NewTaskStore(nil)
	ctx := context.Background()

	id := s.CreateTask(ctx)
	require.NotEmpty(t, id)

	task, ok := s.GetTask(ctx, id)
	require.True(t, ok)
	require.Equal(t, types.TaskPending, task.Status)
	require.Equal(t, 0, task.Progress)
	require.NotEmpty(t, task.CreatedAt)

	processing := types.TaskProcessing
	progress := 40
	require.True(t, s.UpdateTask(ctx, id, TaskUpdate{Status: &processing, Progress: &progress}))

	task, ok = s.GetTask(ctx, id)
	require.True(t, ok)
	require.Equal(t, types.TaskProcessing, task.Status)
	require.Equal(t, 40, task.Progress)
	require.NotEmpty(t, task.UpdatedAt)

	completed := types.TaskCompleted
	done := 100
	result := types.AnalysisResult{TaskID: id, Summary: "done", RiskScore: 20}
	require.True(t, s.UpdateTask(ctx, id, TaskUpdate{Status: &completed, Progress: &done, Result: &result}))

	task, _ = s.GetTask(ctx, id)
	require.Equal(t, types.TaskCompleted, task.Status)
	require.NotNil(t, task.Result)
	require.Equal(t, "done", task.Result.Summary)

	require.True(t, s.DeleteTask(ctx, id))
	_, ok = s.GetTask(ctx, id)
	require.False(t, ok)
}

func TestTaskUpdateMissing(t *testing.T) {
	s := NewTaskStore(nil)
	failed := types.TaskFailed
	require.False(t, s.UpdateTask(context.Background(), "task_nope", TaskUpdate{Status: &failed}))
	require.False(t, s.DeleteTask(context.Background(), "task_nope"))
}

func TestListTasksNewestFirstAndLimited(t *testing.T) {
	s := NewTaskStore(nil)
	ctx := context.Background()

	// CreatedAt has second precision, so spread the timestamps by hand.
	ids := make([]string, 0, 5)
	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		id := s.CreateTask(ctx)
		s.mu.Lock()
		task := s.mem[id]
		task.CreatedAt = base.Add(time.Duration(i) * time.Minute).Format(time.RFC3339)
		s.mem[id] = task
		s.mu.Unlock()
		ids = append(ids, id)
	}

	tasks := s.ListTasks(ctx, 3)
	require.Len(t, tasks, 3)
	require.Equal(t, ids[4], tasks[0].TaskID)
	require.Equal(t, ids[3], tasks[1].TaskID)
}

func TestCleanupOlderThan(t *testing.T) {
	s := NewTaskStore(nil)
	ctx := context.Background()

	oldID := s.CreateTask(ctx)
	s.mu.Lock()
	task := s.mem[oldID]
	task.CreatedAt = time.Now().UTC().Add(-48 * time.Hour).Format(time.RFC3339)
	s.mem[oldID] = task
	s.mu.Unlock()

	freshID := s.CreateTask(ctx)

	require.Equal(t, 1, s.CleanupOlderThan(24*time.Hour))
	_, ok := s.GetTask(ctx, oldID)
	require.False(t, ok)
	_, ok = s.GetTask(ctx, freshID)
	require.True(t, ok)
}

func TestResultStoreReplacesWholesale(t *testing.T) {
	s := NewResultStore(10)

	_, ok := s.Current()
	require.False(t, ok)

	s.Publish(types.AnalysisResult{TaskID: "task_1", Summary: "first"})
	s.Publish(types.AnalysisResult{TaskID: "task_2", Summary: "second"})

	cur, ok := s.Current()
	require.True(t, ok)
	require.Equal(t, "task_2", cur.TaskID)

	hist := s.History()
	require.Len(t, hist, 2)
	require.Equal(t, "task_1", hist[0].TaskID)
}

func TestResultStoreNotifiesSubscribers(t *testing.T) {
	s := NewResultStore(0)

	var got []string
	s.Subscribe(func(res types.AnalysisResult) {
		got = append(got, res.TaskID)
	})

	s.Publish(types.AnalysisResult{TaskID: "task_a"})
	s.Publish(types.AnalysisResult{TaskID: "task_b"})

	require.Equal(t, []string{"task_a", "task_b"}, got)
}

func TestResultStoreHistoryCap(t *testing.T) {
	s := NewResultStore(2)
	for _, id := range []string{"1", "2", "3"} {
		s.Publish(types.AnalysisResult{TaskID: id})
	}
	hist := s.History()
	require.Len(t, hist, 2)
	require.Equal(t, "2", hist[0].TaskID)
	require.Equal(t, "3", hist[1].TaskID)
}
