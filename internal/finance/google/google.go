// Package google reads user snapshots from, and appends conversation logs
// to, a Google Sheets spreadsheet.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"finview/internal/core"
	"finview/internal/finance"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Ensure interface conformance
var (
	_ finance.SnapshotReader     = (*Client)(nil)
	_ finance.ConversationLogger = (*Client)(nil)
)

// valuesAPI is the slice of the Sheets values service the client uses.
type valuesAPI interface {
	Get(ctx context.Context, rng string) ([][]interface{}, error)
	Append(ctx context.Context, rng string, rows [][]interface{}) error
}

type sheetsValues struct {
	svc           *gsheet.Service
	spreadsheetID string
}

func (v sheetsValues) Get(ctx context.Context, rng string) ([][]interface{}, error) {
	resp, err := v.svc.Spreadsheets.Values.Get(v.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (v sheetsValues) Append(ctx context.Context, rng string, rows [][]interface{}) error {
	_, err := v.svc.Spreadsheets.Values.Append(v.spreadsheetID, rng, &gsheet.ValueRange{Values: rows}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}

type Client struct {
	values            valuesAPI
	snapshotSheet     string
	conversationSheet string
}

// Options configures NewFromEnv.
type Options struct {
	SpreadsheetID     string
	SnapshotSheet     string
	ConversationSheet string
}

// NewFromEnv creates a Sheets client authenticated with a service account
// found in GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or
// GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return newClient(sheetsValues{svc: svc, spreadsheetID: opts.SpreadsheetID}, opts), nil
}

func newClient(values valuesAPI, opts Options) *Client {
	c := &Client{
		values:            values,
		snapshotSheet:     strings.TrimSpace(opts.SnapshotSheet),
		conversationSheet: strings.TrimSpace(opts.ConversationSheet),
	}
	if c.snapshotSheet == "" {
		c.snapshotSheet = "Snapshots"
	}
	if c.conversationSheet == "" {
		c.conversationSheet = "Conversations"
	}
	return c
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case serviceAccountJSON != "":
		slog.DebugContext(ctx, "Using inline service account credentials")
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		slog.DebugContext(ctx, "Reading service account credentials", "path", serviceAccountFile)
		b, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	slog.InfoContext(ctx, "Google Sheets service created")
	return service, nil
}

// GetSnapshot implements finance.SnapshotReader by scanning the snapshot
// sheet for rows belonging to userID.
func (c *Client) GetSnapshot(ctx context.Context, userID string) (core.Snapshot, error) {
	rng := fmt.Sprintf("%s!A:G", c.snapshotSheet)
	values, err := c.values.Get(ctx, rng)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("read %s: %w", rng, err)
	}
	data, found, err := parseSnapshotRows(values, userID)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("parse %s: %w", rng, err)
	}
	if !found {
		return core.Snapshot{}, finance.ErrUserNotFound
	}
	snap, err := core.NewSnapshot(data)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("build snapshot for %s: %w", userID, err)
	}
	return snap, nil
}

// LogConversation implements finance.ConversationLogger by appending one
// row: ID, CreatedAt, UserID, Rule, TrainingSystemUsed, Message, Reply.
func (c *Client) LogConversation(ctx context.Context, l core.ConversationLog) error {
	rng := fmt.Sprintf("%s!A:G", c.conversationSheet)
	row := []interface{}{
		l.ID,
		l.CreatedAt.UTC().Format(time.RFC3339),
		l.UserID,
		l.Rule,
		strconv.FormatBool(l.TrainingSystemUsed),
		l.Message,
		l.Reply,
	}
	if err := c.values.Append(ctx, rng, [][]interface{}{row}); err != nil {
		return fmt.Errorf("append to %s: %w", rng, err)
	}
	slog.InfoContext(ctx, "Conversation appended to Google Sheets", "id", l.ID, "sheet", c.conversationSheet)
	return nil
}
