package bot

import (
	"context"
	"fmt"
	"html"
	"log"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"task-tracker/internal/service"
)

const (
	maxTitleLen = 64
	httpTimeout = 15 * time.Second
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier posts task activity and the overdue digest to one Telegram chat.
type Notifier struct {
	api    sender
	chatID int64
	digest *service.DigestService
	now    func() time.Time
}

func New(token string, chatID int64, digest *service.DigestService) (*Notifier, error) {
	api, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, &http.Client{Timeout: httpTimeout})
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("[info] notifier authorized on account %s", api.Self.UserName)

	return newNotifier(api, chatID, digest), nil
}

func newNotifier(api sender, chatID int64, digest *service.DigestService) *Notifier {
	return &Notifier{
		api:    api,
		chatID: chatID,
		digest: digest,
		now:    time.Now,
	}
}

// NotifyActivity implements service.Notifier.
func (n *Notifier) NotifyActivity(ctx context.Context, event service.ActivityEvent) error {
	return n.sendText(ctx, formatEvent(event))
}

// SendOverdueDigest posts the overdue summary when anything is overdue.
func (n *Notifier) SendOverdueDigest(ctx context.Context) error {
	if n.digest == nil {
		return nil
	}
	text, count, err := n.digest.OverdueSummary(ctx, n.now())
	if err != nil {
		return err
	}
	if count == 0 {
		log.Println("[info] digest: nothing overdue")
		return nil
	}
	return n.sendText(ctx, text)
}

// sendText gives up when ctx is done. The Send call itself keeps running
// until the HTTP client timeout ends it.
func (n *Notifier) sendText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	done := make(chan error, 1)
	go func() {
		_, err := n.api.Send(msg)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send telegram message: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("send telegram message: %w", ctx.Err())
	}
}

func formatEvent(event service.ActivityEvent) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<b>%s</b>: #%d %s", html.EscapeString(event.Action), event.TaskID, html.EscapeString(shortTitle(event.TaskTitle, maxTitleLen))))
	if event.ActorName != "" {
		sb.WriteString(fmt.Sprintf("\nby %s", html.EscapeString(event.ActorName)))
	}
	if !event.At.IsZero() {
		sb.WriteString(fmt.Sprintf(" at %s", event.At.Format("2006-01-02 15:04:05")))
	}
	return sb.String()
}

func shortTitle(title string, maxLen int) string {
	title = strings.TrimSpace(strings.ReplaceAll(title, "\n", " "))
	runes := []rune(title)
	if len(runes) <= maxLen {
		return title
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}
