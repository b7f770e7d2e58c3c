package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResumeSubmitted(t *testing.T) {
	var got ResumeSubmitted
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := New(resty.New(), srv.URL)
	require.True(t, n.Enabled())
	err := n.ResumeSubmitted(context.Background(), ResumeSubmitted{
		ResumeID:      7,
		Name:          "张三",
		StudentNumber: "202300001",
		SubmitYear:    2025,
		SubmittedAt:   time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, "resume.submitted", got.Event)
	assert.EqualValues(t, 7, got.ResumeID)
	assert.Equal(t, "202300001", got.StudentNumber)
}

func TestResumeSubmittedErrorStatus(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := New(resty.New(), srv.URL).ResumeSubmitted(context.Background(), ResumeSubmitted{ResumeID: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.EqualValues(t, 1, calls.Load())
}

func TestDisabledNotifier(t *testing.T) {
	var n *Notifier
	assert.False(t, n.Enabled())
	require.NoError(t, n.ResumeSubmitted(context.Background(), ResumeSubmitted{}))

	n = New(resty.New(), "")
	assert.False(t, n.Enabled())
	require.NoError(t, n.ResumeSubmitted(context.Background(), ResumeSubmitted{}))
}
