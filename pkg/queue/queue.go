package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	cfg "github.com/expenseflow/invoice-processor/config"
)

// TaskTypeWorkflowRun 非同步工作流程執行的任務類型
const TaskTypeWorkflowRun = "workflow:run"

// statusTTL 最終狀態在 redis 裡保留的時間
const statusTTL = 24 * time.Hour

// Queue 非同步任務佇列
type Queue interface {
	Enqueue(ctx context.Context, task *Task) error
	GetTaskStatus(ctx context.Context, taskID string) (*TaskStatus, error)
	SaveStatus(ctx context.Context, status *TaskStatus) error
}

// Task 佇列任務，Payload 由任務類型決定內容
type Task struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	Payload   json.RawMessage   `json:"payload"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// TaskStatus 任務狀態，最終狀態寫進 redis 供查詢
type TaskStatus struct {
	TaskID     string    `json:"taskId"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	ResultURI  string    `json:"resultUri,omitempty"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt,omitempty"`
}

// AsynqQueue 以 asynq + redis 實作 Queue
type AsynqQueue struct {
	client    *asynq.Client
	inspector *asynq.Inspector
	redis     *redis.Client
}

func NewAsynqQueue(conf *cfg.QueueConfig) (*AsynqQueue, error) {
	redisOpt := asynq.RedisClientOpt{
		Addr: conf.RedisAddr,
		DB:   conf.RedisDB,
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: conf.RedisAddr,
		DB:   conf.RedisDB,
	})

	return &AsynqQueue{
		client:    asynq.NewClient(redisOpt),
		inspector: asynq.NewInspector(redisOpt),
		redis:     redisClient,
	}, nil
}

// Enqueue 把任務序列化後加入佇列，以任務 ID 去重
func (q *AsynqQueue) Enqueue(ctx context.Context, task *Task) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	opts := []asynq.Option{
		asynq.TaskID(task.ID),
		asynq.MaxRetry(2),
		asynq.Timeout(5 * time.Minute),
		asynq.Queue("default"),
	}

	t := asynq.NewTask(task.Type, payload, opts...)
	if _, err := q.client.EnqueueContext(ctx, t); err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	return nil
}

// GetTaskStatus 先查 redis 裡保存的狀態，沒有再問 asynq
func (q *AsynqQueue) GetTaskStatus(ctx context.Context, taskID string) (*TaskStatus, error) {
	data, err := q.redis.Get(ctx, statusKey(taskID)).Bytes()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to get status from redis: %w", err)
	}

	if err == nil {
		var status TaskStatus
		if err := json.Unmarshal(data, &status); err != nil {
			return nil, fmt.Errorf("failed to unmarshal status: %w", err)
		}
		return &status, nil
	}

	info, err := q.inspector.GetTaskInfo("default", taskID)
	if err != nil {
		return nil, fmt.Errorf("task %s not found: %w", taskID, err)
	}

	return convertAsynqStatus(info), nil
}

// SaveStatus 把狀態寫進 redis，帶過期時間
func (q *AsynqQueue) SaveStatus(ctx context.Context, status *TaskStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}

	if err := q.redis.Set(ctx, statusKey(status.TaskID), data, statusTTL).Err(); err != nil {
		return fmt.Errorf("failed to save status: %w", err)
	}

	return nil
}

func statusKey(taskID string) string {
	return fmt.Sprintf("task_status:%s", taskID)
}

func convertAsynqStatus(info *asynq.TaskInfo) *TaskStatus {
	status := &TaskStatus{
		TaskID:    info.ID,
		StartedAt: info.NextProcessAt,
	}

	switch info.State {
	case asynq.TaskStatePending, asynq.TaskStateScheduled:
		status.Status = "pending"
	case asynq.TaskStateActive:
		status.Status = "running"
	case asynq.TaskStateCompleted:
		status.Status = "completed"
		status.FinishedAt = info.CompletedAt
	case asynq.TaskStateRetry, asynq.TaskStateArchived:
		status.Status = "failed"
		status.Error = info.LastErr
	default:
		status.Status = "pending"
	}

	return status
}
