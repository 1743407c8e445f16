// Package telegram implements the bots.Messenger capability against the
// Telegram Bot API.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"go-erp/internal/bots"
)

const baseURL = "https://api.telegram.org"

// pollTimeout is the long-poll window requested from getUpdates; the
// HTTP client timeout must stay above it.
const pollTimeout = 25

type Client struct {
	token      string
	httpClient *http.Client
}

func New(token string) *Client {
	return &Client{
		token: token,
		httpClient: &http.Client{
			Timeout: 40 * time.Second,
		},
	}
}

func (c *Client) Name() string { return "telegram" }

// Configured reports whether a bot token is present; an unconfigured
// client is skipped by the runner and the dispatcher.
func (c *Client) Configured() bool { return c.token != "" }

func (c *Client) SendText(ctx context.Context, chatID int64, text string, kb *bots.Keyboard) error {
	body := map[string]interface{}{
		"chat_id": chatID,
		"text":    text,
	}
	if kb != nil {
		body["reply_markup"] = replyMarkup(kb)
	}

	return c.doRequest(ctx, "sendMessage", body, nil)
}

func (c *Client) SendImage(ctx context.Context, chatID int64, image []byte, caption string, kb *bots.Keyboard) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	_ = w.WriteField("chat_id", fmt.Sprintf("%d", chatID))
	if caption != "" {
		_ = w.WriteField("caption", caption)
	}
	if kb != nil {
		markup, _ := json.Marshal(replyMarkup(kb))
		_ = w.WriteField("reply_markup", string(markup))
	}

	part, err := w.CreateFormFile("photo", "card.png")
	if err != nil {
		return err
	}
	if _, err := part.Write(image); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendPhoto", baseURL, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return checkResponse(resp)
}

func (c *Client) Poll(ctx context.Context, offset int) ([]bots.Update, int, error) {
	body := map[string]interface{}{
		"offset":  offset,
		"timeout": pollTimeout,
	}

	var result struct {
		Result []struct {
			UpdateID int `json:"update_id"`
			Message  *struct {
				Text string `json:"text"`
				Chat struct {
					ID int64 `json:"id"`
				} `json:"chat"`
			} `json:"message"`
			CallbackQuery *struct {
				Data    string `json:"data"`
				Message *struct {
					Chat struct {
						ID int64 `json:"id"`
					} `json:"chat"`
				} `json:"message"`
			} `json:"callback_query"`
		} `json:"result"`
	}

	if err := c.doRequest(ctx, "getUpdates", body, &result); err != nil {
		return nil, offset, err
	}

	next := offset
	var updates []bots.Update
	for _, raw := range result.Result {
		if raw.UpdateID >= next {
			next = raw.UpdateID + 1
		}
		switch {
		case raw.Message != nil:
			updates = append(updates, bots.Update{
				Platform: c.Name(),
				ChatID:   raw.Message.Chat.ID,
				Text:     raw.Message.Text,
			})
		case raw.CallbackQuery != nil && raw.CallbackQuery.Message != nil:
			updates = append(updates, bots.Update{
				Platform: c.Name(),
				ChatID:   raw.CallbackQuery.Message.Chat.ID,
				Callback: raw.CallbackQuery.Data,
			})
		}
	}
	return updates, next, nil
}

func (c *Client) doRequest(ctx context.Context, method string, body interface{}, result interface{}) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/%s", baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return err
	}
	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

func checkResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("telegram api status %d: %s", resp.StatusCode, raw)
}

func replyMarkup(kb *bots.Keyboard) map[string]interface{} {
	if kb.Inline {
		rows := make([][]map[string]string, 0, len(kb.Rows))
		for _, row := range kb.Rows {
			buttons := make([]map[string]string, 0, len(row))
			for _, b := range row {
				buttons = append(buttons, map[string]string{"text": b.Text, "callback_data": b.Data})
			}
			rows = append(rows, buttons)
		}
		return map[string]interface{}{"inline_keyboard": rows}
	}

	rows := make([][]string, 0, len(kb.Rows))
	for _, row := range kb.Rows {
		buttons := make([]string, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, b.Text)
		}
		rows = append(rows, buttons)
	}
	return map[string]interface{}{"keyboard": rows, "resize_keyboard": true}
}
