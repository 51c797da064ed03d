package types

// TaskStatus is the lifecycle state of a background analysis task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskProcessing TaskStatus = "processing"
	TaskCompleted  TaskStatus = "completed"
	TaskFailed     TaskStatus = "failed"
)

// TaskInfo is the API view of a background analysis task.
type TaskInfo struct {
	TaskID    string          `json:"task_id" firestore:"taskId"`
	Status    TaskStatus      `json:"status" firestore:"status"`
	Progress  int             `json:"progress" firestore:"progress"`
	CreatedAt string          `json:"created_at" firestore:"createdAt"`
	UpdatedAt string          `json:"updated_at,omitempty" firestore:"updatedAt,omitempty"`
	Result    *AnalysisResult `json:"result,omitempty" firestore:"result,omitempty"`
	Error     string          `json:"error,omitempty" firestore:"error,omitempty"`
}

// TaskCreateResponse acknowledges an async analysis submission.
type TaskCreateResponse struct {
	TaskID  string     `json:"task_id"`
	Status  TaskStatus `json:"status"`
	Message string     `json:"message"`
}
