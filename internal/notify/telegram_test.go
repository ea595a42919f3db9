package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hlybov/posterjob/internal/job"
)

func sampleResult(completed bool) *job.RunResult {
	result := &job.RunResult{
		Date:      "2024-03-15",
		BaseDir:   "/srv/poster",
		Timestamp: time.Date(2024, 3, 16, 4, 0, 0, 0, time.UTC),
		Completed: completed,
		Steps: []job.StepResult{
			{Name: job.StepImport, Status: job.StatusOK, Duration: 12 * time.Second},
			{Name: job.StepReport, Status: job.StatusOK, Duration: time.Second},
		},
		Summary: job.Summary{TotalSteps: 2, Ran: 2, TotalTime: 13 * time.Second},
	}

	if !completed {
		result.Steps[0].Status = job.StatusFailed
		result.Steps[0].ExitCode = 1
		result.Steps[1] = job.StepResult{Name: job.StepReport, Status: job.StatusSkipped}
		result.Summary.Ran = 1
		result.Summary.FailedStep = job.StepImport
	}

	return result
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(Config{ChatID: "42"}); err != ErrMissingToken {
		t.Errorf("New() error = %v, want ErrMissingToken", err)
	}
	if _, err := New(Config{Token: "123:abc"}); err != ErrMissingChatID {
		t.Errorf("New() error = %v, want ErrMissingChatID", err)
	}
	if _, err := New(Config{Token: "123:abc", ChatID: "42"}); err != nil {
		t.Errorf("New() error = %v", err)
	}
}

func TestNotify_SendsMessage(t *testing.T) {
	var gotPath string
	var gotChatID, gotText string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseForm(); err != nil {
			t.Error(err)
		}
		gotChatID = r.FormValue("chat_id")
		gotText = r.FormValue("text")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	notifier, err := New(Config{
		Token:   "123:abc",
		ChatID:  "-100123",
		APIBase: server.URL,
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := notifier.Notify(context.Background(), sampleResult(true)); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}

	if gotPath != "/bot123:abc/sendMessage" {
		t.Errorf("request path = %q", gotPath)
	}
	if gotChatID != "-100123" {
		t.Errorf("chat_id = %q", gotChatID)
	}
	if !strings.Contains(gotText, "2024-03-15") {
		t.Errorf("message text = %q, want date included", gotText)
	}
}

func TestNotify_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"ok":false,"description":"Bad Request: chat not found"}`))
	}))
	defer server.Close()

	notifier, err := New(Config{Token: "123:abc", ChatID: "42", APIBase: server.URL})
	if err != nil {
		t.Fatal(err)
	}

	err = notifier.Notify(context.Background(), sampleResult(true))
	if err == nil {
		t.Fatal("Notify() expected error")
	}
	if !strings.Contains(err.Error(), "chat not found") {
		t.Errorf("Notify() error = %v, want API description included", err)
	}
}

func TestMessage_Success(t *testing.T) {
	msg := Message(sampleResult(true))

	for _, want := range []string{
		"posterjob 2024-03-15: all 2 steps completed",
		"poster_import_daily: ok",
		"report_anomalies: ok",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("Message() missing %q in %q", want, msg)
		}
	}
}

func TestMessage_Failure(t *testing.T) {
	msg := Message(sampleResult(false))

	for _, want := range []string{
		"FAILED at poster_import_daily",
		"poster_import_daily: failed, exit 1",
		"report_anomalies: skipped",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("Message() missing %q in %q", want, msg)
		}
	}
}
