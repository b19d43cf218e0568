package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// CommandHandler maps one chat command (e.g. "/run") to its reply text.
type CommandHandler func(command string) string

// telegramUpdate is the slice of the getUpdates payload the command loop
// needs: the update cursor, the sender chat, and the message text.
type telegramUpdate struct {
	UpdateID int `json:"update_id"`
	Message  *struct {
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
		Text string `json:"text"`
	} `json:"message"`
}

// StartPolling long-polls getUpdates and dispatches commands from the
// configured chat to the handler. Messages from other chats and plain
// chatter are ignored. Blocks until ctx is cancelled.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	offset := 0
	// Long-poll timeout is 30s server-side; the client allows slack on top.
	client := &http.Client{Timeout: 35 * time.Second}

	for {
		select {
		case <-ctx.Done():
			log.Println("[INFO] Telegram polling stopped")
			return
		default:
		}

		apiURL := fmt.Sprintf("https://api.telegram.org/bot%s/getUpdates?offset=%d&timeout=30", t.BotToken, offset)
		req, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
		if err != nil {
			log.Printf("[ERROR] create polling request: %v", err)
			time.Sleep(5 * time.Second)
			continue
		}

		resp, err := client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("[WARN] polling request failed: %v", err)
			time.Sleep(5 * time.Second)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			log.Printf("[WARN] read polling response: %v", err)
			continue
		}

		var result struct {
			OK     bool             `json:"ok"`
			Result []telegramUpdate `json:"result"`
		}
		if err := json.Unmarshal(body, &result); err != nil {
			log.Printf("[WARN] decode polling response: %v", err)
			continue
		}

		for _, update := range result.Result {
			offset = update.UpdateID + 1
			cmd, ok := t.acceptCommand(update)
			if !ok {
				continue
			}
			log.Printf("[INFO] received command: %s", cmd)
			reply := handler(cmd)
			if reply != "" {
				if err := t.Send(reply); err != nil {
					log.Printf("[ERROR] send reply: %v", err)
				}
			}
		}
	}
}

// acceptCommand filters one update down to a dispatchable command: it must
// come from the configured chat, start with "/", and any @botname suffix
// on the command word is stripped.
func (t *TelegramNotifier) acceptCommand(update telegramUpdate) (string, bool) {
	if update.Message == nil || update.Message.Text == "" {
		return "", false
	}
	if want, err := strconv.ParseInt(t.ChatID, 10, 64); err == nil && update.Message.Chat.ID != want {
		return "", false
	}
	text := strings.TrimSpace(update.Message.Text)
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	if i := strings.IndexByte(text, '@'); i > 0 {
		rest := ""
		if j := strings.IndexByte(text, ' '); j > i {
			rest = text[j:]
		}
		text = text[:i] + rest
	}
	return text, true
}
