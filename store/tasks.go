package store

import (
	"context"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"go-disasterai/types"
)

const tasksCollection = "tasks"

// TaskUpdate carries the mutable task fields; nil fields are left unchanged.
type TaskUpdate struct {
	Status   *types.TaskStatus
	Progress *int
	Result   *types.AnalysisResult
	Error    *string
}

// TaskStore persists background analysis tasks. Firestore is the primary
// store; every operation falls back to the in-memory table when Firestore is
// unavailable, so async analysis keeps working on a laptop with no
// credentials.
type TaskStore struct {
	client *firestore.Client

	mu  sync.RWMutex
	mem map[string]types.TaskInfo
}

// NewTaskStore wraps an optional Firestore client. Pass nil to run
// memory-only.
func NewTaskStore(client *firestore.Client) *TaskStore {
	return &TaskStore{
		client: client,
		mem:    make(map[string]types.TaskInfo),
	}
}

// NewTaskID mints a short random task identifier.
func NewTaskID() string {
	return "task_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// CreateTask records a new pending task and returns its ID.
func (s *TaskStore) CreateTask(ctx context.Context) string {
	task := types.TaskInfo{
		TaskID:    NewTaskID(),
		Status:    types.TaskPending,
		Progress:  0,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	if s.client != nil {
		_, err := s.client.Collection(tasksCollection).Doc(task.TaskID).Set(ctx, task)
		if err == nil {
			return task.TaskID
		}
		log.Printf("task store: firestore create failed, using memory: %v", err)
	}

	s.mu.Lock()
	s.mem[task.TaskID] = task
	s.mu.Unlock()
	return task.TaskID
}

// GetTask fetches one task by ID.
func (s *TaskStore) GetTask(ctx context.Context, taskID string) (types.TaskInfo, bool) {
	if s.client != nil {
		doc, err := s.client.Collection(tasksCollection).Doc(taskID).Get(ctx)
		if err == nil {
			var task types.TaskInfo
			if err := doc.DataTo(&task); err == nil {
				return task, true
			}
		}
	}

	s.mu.RLock()
	task, ok := s.mem[taskID]
	s.mu.RUnlock()
	return task, ok
}

// UpdateTask applies the non-nil fields of upd to a task. Returns false if
// the task does not exist in either tier.
func (s *TaskStore) UpdateTask(ctx context.Context, taskID string, upd TaskUpdate) bool {
	task, ok := s.GetTask(ctx, taskID)
	if !ok {
		return false
	}

	if upd.Status != nil {
		task.Status = *upd.Status
	}
	if upd.Progress != nil {
		task.Progress = *upd.Progress
	}
	if upd.Result != nil {
		task.Result = upd.Result
	}
	if upd.Error != nil {
		task.Error = *upd.Error
	}
	task.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	if s.client != nil {
		_, err := s.client.Collection(tasksCollection).Doc(taskID).Set(ctx, task)
		if err == nil {
			return true
		}
		log.Printf("task store: firestore update failed, using memory: %v", err)
	}

	s.mu.Lock()
	s.mem[taskID] = task
	s.mu.Unlock()
	return true
}

// DeleteTask removes a task from both tiers.
func (s *TaskStore) DeleteTask(ctx context.Context, taskID string) bool {
	found := false

	if s.client != nil {
		if _, err := s.client.Collection(tasksCollection).Doc(taskID).Delete(ctx); err == nil {
			found = true
		}
	}

	s.mu.Lock()
	if _, ok := s.mem[taskID]; ok {
		delete(s.mem, taskID)
		found = true
	}
	s.mu.Unlock()
	return found
}

// ListTasks returns the most recent tasks, newest first.
func (s *TaskStore) ListTasks(ctx context.Context, limit int) []types.TaskInfo {
	if limit <= 0 {
		limit = 50
	}

	if s.client != nil {
		iter := s.client.Collection(tasksCollection).
			OrderBy("createdAt", firestore.Desc).
			Limit(limit).
			Documents(ctx)
		defer iter.Stop()

		tasks := make([]types.TaskInfo, 0, limit)
		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				return tasks
			}
			if err != nil {
				log.Printf("task store: firestore list failed, using memory: %v", err)
				break
			}
			var task types.TaskInfo
			if err := doc.DataTo(&task); err == nil {
				tasks = append(tasks, task)
			}
		}
	}

	s.mu.RLock()
	tasks := make([]types.TaskInfo, 0, len(s.mem))
	for _, task := range s.mem {
		tasks = append(tasks, task)
	}
	s.mu.RUnlock()

	sort.Slice(tasks, func(i, j int) bool { return tasks[i].CreatedAt > tasks[j].CreatedAt })
	if len(tasks) > limit {
		tasks = tasks[:limit]
	}
	return tasks
}

// CleanupOlderThan drops memory-tier tasks older than the given age and
// returns how many were removed. Firestore cleanup runs via TTL policies on
// the collection, not here.
func (s *TaskStore) CleanupOlderThan(age time.Duration) int {
	cutoff := time.Now().UTC().Add(-age)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, task := range s.mem {
		created, err := time.Parse(time.RFC3339, task.CreatedAt)
		if err != nil || created.Before(cutoff) {
			delete(s.mem, id)
			removed++
		}
	}
	return removed
}
