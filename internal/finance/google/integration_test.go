//go:build integration

package google

import (
	"context"
	"os"
	"testing"
	"time"

	"finview/internal/core"
)

// Integration tests require a real spreadsheet and service account.
// Run with: go test -tags=integration ./internal/finance/google

func TestIntegration_SnapshotAndConversation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	spreadsheetID := os.Getenv("GOOGLE_SPREADSHEET_ID")
	if spreadsheetID == "" {
		t.Skip("GOOGLE_SPREADSHEET_ID not set, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := NewFromEnv(ctx, Options{
		SpreadsheetID:     spreadsheetID,
		SnapshotSheet:     os.Getenv("GOOGLE_SNAPSHOT_SHEET"),
		ConversationSheet: os.Getenv("GOOGLE_CONVERSATION_SHEET"),
	})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	t.Run("SnapshotReader", func(t *testing.T) {
		snap, err := client.GetSnapshot(ctx, "user123")
		if err != nil {
			t.Fatalf("Failed to read snapshot: %v", err)
		}
		t.Logf("user123: income=%s categories=%d", snap.TotalIncome().String(), len(snap.Categories()))
	})

	t.Run("ConversationLogger", func(t *testing.T) {
		err := client.LogConversation(ctx, core.ConversationLog{
			ID:        "integration-" + time.Now().Format("20060102150405"),
			UserID:    "user123",
			Message:   "Integration test message",
			Reply:     "Integration test reply",
			Rule:      "default",
			CreatedAt: time.Now(),
		})
		if err != nil {
			t.Fatalf("Failed to append conversation: %v", err)
		}
	})
}
