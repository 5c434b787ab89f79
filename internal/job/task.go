// Package job dispatches lead notifications, through asynq when Redis is
// configured and on a goroutine otherwise.
package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/devmart/internal/model"
	"github.com/hibiken/asynq"
)

// TaskLeadNotify is the asynq task type for new lead emails.
const TaskLeadNotify = "lead:notify"

// LeadNotifyPayload is stored in Redis as JSON.
type LeadNotifyPayload struct {
	Lead model.Lead `json:"lead"`
}

// NewLeadNotifyTask 构造新线索通知任务：最多重试 3 次，单次执行 30 秒超时。
func NewLeadNotifyTask(lead model.Lead) (*asynq.Task, error) {
	payload, err := json.Marshal(LeadNotifyPayload{Lead: lead})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(
		TaskLeadNotify,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("default"),
		asynq.Timeout(30*time.Second),
	), nil
}

// Notifier sends the notification for one lead.
type Notifier interface {
	NotifyLead(ctx context.Context, lead model.Lead) error
}

// LeadNotifyHandler returns the asynq handler running n.
func LeadNotifyHandler(n Notifier) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var p LeadNotifyPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			return fmt.Errorf("failed to unmarshal lead notify payload: %w", err)
		}
		return n.NotifyLead(ctx, p.Lead)
	}
}
