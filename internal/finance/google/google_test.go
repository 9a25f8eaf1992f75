package google

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"finview/internal/core"
	"finview/internal/finance"
)

type fakeValues struct {
	rows     map[string][][]interface{}
	appended map[string][][]interface{}
	err      error
}

func (f *fakeValues) Get(_ context.Context, rng string) ([][]interface{}, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rows[rng], nil
}

func (f *fakeValues) Append(_ context.Context, rng string, rows [][]interface{}) error {
	if f.err != nil {
		return f.err
	}
	if f.appended == nil {
		f.appended = map[string][][]interface{}{}
	}
	f.appended[rng] = append(f.appended[rng], rows...)
	return nil
}

func TestNewFromEnv_MissingSpreadsheetID(t *testing.T) {
	_, err := NewFromEnv(context.Background(), Options{})
	if err == nil {
		t.Fatal("expected error for missing spreadsheet id")
	}
	if err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNewSheetsService_MissingCredentials(t *testing.T) {
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_FILE", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

	_, err := newSheetsService(context.Background())
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("expected missing credentials error, got %v", err)
	}
}

func TestNewSheetsService_UnreadableFile(t *testing.T) {
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_FILE", "/nonexistent/credentials.json")

	_, err := newSheetsService(context.Background())
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestClient_GetSnapshot(t *testing.T) {
	values := &fakeValues{rows: map[string][][]interface{}{"Snapshots!A:G": demoRows()}}
	c := newClient(values, Options{})

	snap, err := c.GetSnapshot(context.Background(), "user123")
	if err != nil {
		t.Fatalf("get snapshot: %v", err)
	}
	if snap.UserID() != "user123" || len(snap.Categories()) != 2 {
		t.Errorf("unexpected snapshot: %+v", snap.Data())
	}

	if _, err := c.GetSnapshot(context.Background(), "nobody"); !errors.Is(err, finance.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestClient_GetSnapshotDuplicateCategory(t *testing.T) {
	values := &fakeValues{rows: map[string][][]interface{}{"Custom!A:G": {
		{"user123", "category", "Housing", "1"},
		{"user123", "category", "Housing", "2"},
	}}}
	c := newClient(values, Options{SnapshotSheet: "Custom"})

	_, err := c.GetSnapshot(context.Background(), "user123")
	if !errors.Is(err, core.ErrDuplicateCategory) {
		t.Fatalf("expected ErrDuplicateCategory, got %v", err)
	}
}

func TestClient_GetSnapshotBackendError(t *testing.T) {
	c := newClient(&fakeValues{err: errors.New("quota exceeded")}, Options{})
	_, err := c.GetSnapshot(context.Background(), "user123")
	if err == nil || errors.Is(err, finance.ErrUserNotFound) {
		t.Fatalf("expected backend error, got %v", err)
	}
}

func TestClient_LogConversation(t *testing.T) {
	values := &fakeValues{}
	c := newClient(values, Options{ConversationSheet: "Log"})

	err := c.LogConversation(context.Background(), core.ConversationLog{
		ID:        "c-1",
		UserID:    "user123",
		Message:   "hi",
		Reply:     "hello",
		Rule:      "default",
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	rows := values.appended["Log!A:G"]
	if len(rows) != 1 {
		t.Fatalf("appended rows = %d", len(rows))
	}
	want := []interface{}{"c-1", "2024-01-02T03:04:05Z", "user123", "default", "false", "hi", "hello"}
	for i, v := range want {
		if rows[0][i] != v {
			t.Errorf("col %d = %v, want %v", i, rows[0][i], v)
		}
	}
}
