package bot

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"task-tracker/internal/model"
	"task-tracker/internal/repository"
	"task-tracker/internal/service"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

func TestNotifier_NotifyActivity(t *testing.T) {
	api := &fakeSender{}
	n := newNotifier(api, 77, nil)

	event := service.ActivityEvent{
		TaskID:    3,
		TaskTitle: "Fix <b>bug</b>",
		Action:    model.ActionTaskUpdated,
		ActorName: "alice",
		At:        time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	if err := n.NotifyActivity(context.Background(), event); err != nil {
		t.Fatalf("NotifyActivity: %v", err)
	}

	if len(api.sent) != 1 {
		t.Fatalf("expected one message, got %d", len(api.sent))
	}
	msg := api.sent[0]
	if msg.ChatID != 77 || msg.ParseMode != tgbotapi.ModeHTML {
		t.Fatalf("unexpected message config: %+v", msg)
	}
	want := "<b>Task Updated</b>: #3 Fix &lt;b&gt;bug&lt;/b&gt;\nby alice at 2025-01-02 03:04:05"
	if msg.Text != want {
		t.Fatalf("text = %q, want %q", msg.Text, want)
	}
}

func TestNotifier_SendError(t *testing.T) {
	n := newNotifier(&fakeSender{err: errors.New("network")}, 1, nil)
	if err := n.NotifyActivity(context.Background(), service.ActivityEvent{Action: model.ActionTaskCreated}); err == nil {
		t.Fatalf("expected send error")
	}
}

func TestNotifier_CancelledContext(t *testing.T) {
	api := &fakeSender{}
	n := newNotifier(api, 1, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := n.NotifyActivity(ctx, service.ActivityEvent{Action: model.ActionTaskCreated}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(api.sent) != 0 {
		t.Fatalf("nothing should be sent after cancellation")
	}
}

type blockingSender struct {
	release chan struct{}
}

func (b *blockingSender) Send(tgbotapi.Chattable) (tgbotapi.Message, error) {
	<-b.release
	return tgbotapi.Message{}, nil
}

func TestNotifier_StalledSendHonoursDeadline(t *testing.T) {
	api := &blockingSender{release: make(chan struct{})}
	defer close(api.release)
	n := newNotifier(api, 1, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := n.NotifyActivity(ctx, service.ActivityEvent{Action: model.ActionTaskCreated})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("NotifyActivity returned after %s", elapsed)
	}
}

func TestNotifier_SendOverdueDigest(t *testing.T) {
	ctx := context.Background()
	db, err := repository.NewDB(repository.DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("DB: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	store := repository.NewStore(db)
	owner := model.User{Name: "alice", Email: "a@x.com", Role: model.RoleStudent}
	if err := store.Users.Create(ctx, &owner); err != nil {
		t.Fatalf("create user: %v", err)
	}

	api := &fakeSender{}
	n := newNotifier(api, 5, service.NewDigestService(store.Tasks, store.Users))
	n.now = func() time.Time { return time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC) }

	if err := n.SendOverdueDigest(ctx); err != nil {
		t.Fatalf("SendOverdueDigest: %v", err)
	}
	if len(api.sent) != 0 {
		t.Fatalf("empty digest must not be sent")
	}

	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	task := model.Task{UserID: owner.ID, Title: "overdue", Status: model.StatusOpen, Priority: model.PriorityLow, Deadline: "2025-01-05", CreatedAt: created, UpdatedAt: created}
	if err := store.Tasks.Create(ctx, &task); err != nil {
		t.Fatalf("create task: %v", err)
	}

	if err := n.SendOverdueDigest(ctx); err != nil {
		t.Fatalf("SendOverdueDigest: %v", err)
	}
	if len(api.sent) != 1 || !strings.Contains(api.sent[0].Text, "overdue") {
		t.Fatalf("expected digest message, got %+v", api.sent)
	}
}

func TestShortTitle(t *testing.T) {
	if got := shortTitle("  short  ", 10); got != "short" {
		t.Fatalf("shortTitle = %q", got)
	}
	if got := shortTitle("abcdefghij", 5); got != "abcd…" {
		t.Fatalf("shortTitle = %q", got)
	}
}
