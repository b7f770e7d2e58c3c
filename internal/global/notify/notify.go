package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// ResumeSubmitted 新简历提交事件，只带摘要信息
type ResumeSubmitted struct {
	Event         string    `json:"event"`
	ResumeID      uint      `json:"resume_id"`
	Name          string    `json:"name"`
	StudentNumber string    `json:"student_number"`
	SubmitYear    int       `json:"submit_year"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

// Notifier 向配置的 webhook 推送 JSON 事件，URL 为空时什么都不做
type Notifier struct {
	client *resty.Client
	url    string
}

func New(client *resty.Client, url string) *Notifier {
	return &Notifier{client: client, url: url}
}

func (n *Notifier) Enabled() bool {
	return n != nil && n.url != "" && n.client != nil
}

func (n *Notifier) ResumeSubmitted(ctx context.Context, e ResumeSubmitted) error {
	e.Event = "resume.submitted"
	return n.post(ctx, e)
}

func (n *Notifier) post(ctx context.Context, body any) error {
	if !n.Enabled() {
		return nil
	}
	resp, err := n.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(n.url)
	if err != nil {
		return errors.Wrap(err, "webhook 请求失败")
	}
	if resp.IsError() {
		return fmt.Errorf("webhook 返回异常状态码 %d", resp.StatusCode())
	}
	return nil
}
