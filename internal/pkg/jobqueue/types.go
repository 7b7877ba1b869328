package jobqueue

import (
	"encoding/json"
	"time"
)

// JobType defines the type of job
type JobType string

const (
	JobTypePushTopic     JobType = "push_topic"
	JobTypePushSubscribe JobType = "push_subscribe"
)

// JobStatus defines the status of a job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusRetrying   JobStatus = "retrying"
)

// Job represents a background job
type Job struct {
	ID          string                 `json:"id"`
	Type        JobType                `json:"type"`
	Status      JobStatus              `json:"status"`
	Payload     map[string]interface{} `json:"payload"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	ProcessedAt *time.Time             `json:"processed_at,omitempty"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
	ErrorMsg    string                 `json:"error_msg,omitempty"`
	RetryCount  int                    `json:"retry_count"`
	MaxRetries  int                    `json:"max_retries"`
}

// PushTopicJobPayload carries a notification broadcast to every device subscribed to Topic
type PushTopicJobPayload struct {
	Topic string            `json:"topic"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

// ToMap converts the payload to a map for storage
func (p PushTopicJobPayload) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"topic": p.Topic,
		"title": p.Title,
		"body":  p.Body,
	}
	if len(p.Data) > 0 {
		m["data"] = p.Data
	}
	return m
}

// PushTopicJobPayloadFromMap creates a payload from a map
func PushTopicJobPayloadFromMap(data map[string]interface{}) (*PushTopicJobPayload, error) {
	var payload PushTopicJobPayload
	if err := decodePayload(data, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// PushSubscribeJobPayload subscribes one device token to a topic
type PushSubscribeJobPayload struct {
	Token string `json:"token"`
	Topic string `json:"topic"`
}

// ToMap converts the payload to a map for storage
func (p PushSubscribeJobPayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"token": p.Token,
		"topic": p.Topic,
	}
}

// PushSubscribeJobPayloadFromMap creates a payload from a map
func PushSubscribeJobPayloadFromMap(data map[string]interface{}) (*PushSubscribeJobPayload, error) {
	var payload PushSubscribeJobPayload
	if err := decodePayload(data, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func decodePayload(data map[string]interface{}, out interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(jsonData, out)
}

// IsRetryable checks if the job can be retried
func (j *Job) IsRetryable() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

// MarkAsProcessing updates the job status to processing
func (j *Job) MarkAsProcessing() {
	now := time.Now()
	j.Status = JobStatusProcessing
	j.UpdatedAt = now
	j.ProcessedAt = &now
}

// MarkAsCompleted updates the job status to completed
func (j *Job) MarkAsCompleted() {
	now := time.Now()
	j.Status = JobStatusCompleted
	j.UpdatedAt = now
	j.CompletedAt = &now
	j.ErrorMsg = ""
}

// MarkAsFailed updates the job status to failed
func (j *Job) MarkAsFailed(errorMsg string) {
	j.Status = JobStatusFailed
	j.UpdatedAt = time.Now()
	j.ErrorMsg = errorMsg
	j.RetryCount++
}

// MarkAsRetrying updates the job status to retrying
func (j *Job) MarkAsRetrying() {
	j.Status = JobStatusRetrying
	j.UpdatedAt = time.Now()
}
