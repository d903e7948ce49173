package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/finnvos/skysniper/internal/model"
)

// Discord embed color for a positive find.
const webhookEmbedColor = 3066993

// Webhook posts flip events to a Discord webhook URL.
type Webhook struct {
	url    string
	client *resty.Client
	logger *slog.Logger
}

// NewWebhook creates a webhook sink.
func NewWebhook(url string, logger *slog.Logger) *Webhook {
	if logger == nil {
		logger = slog.Default()
	}
	client := resty.New()
	client.SetTimeout(10 * time.Second)

	return &Webhook{
		url:    url,
		client: client,
		logger: logger,
	}
}

type webhookField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type webhookEmbed struct {
	Title  string         `json:"title"`
	Color  int            `json:"color"`
	Fields []webhookField `json:"fields"`
}

type webhookPayload struct {
	Content string         `json:"content"`
	Embeds  []webhookEmbed `json:"embeds"`
}

// Notify sends one embed summarizing the flip.
func (w *Webhook) Notify(ctx context.Context, ev model.FlipEvent) error {
	payload := webhookPayload{
		Content: "Potential flip found!",
		Embeds: []webhookEmbed{{
			Title: "Auction Details",
			Color: webhookEmbedColor,
			Fields: []webhookField{
				{Name: "Item", Value: ev.Name, Inline: true},
				{Name: "Selling Price", Value: fmt.Sprintf("%.0f coins", ev.Price), Inline: true},
				{Name: "Estimated Value", Value: fmt.Sprintf("%.0f coins", ev.Value), Inline: true},
				{Name: "Potential Profit", Value: fmt.Sprintf("%.0f coins", ev.Profit()), Inline: true},
				{Name: "Profit Percentage", Value: fmt.Sprintf("%.2f%%", ev.ProfitPercent()), Inline: true},
				{Name: "Command", Value: fmt.Sprintf("`%s`", ViewCommand(ev)), Inline: false},
			},
		}},
	}

	resp, err := w.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(w.url)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook status %d: %s", resp.StatusCode(), resp.String())
	}

	w.logger.Debug("webhook delivered", "auction_id", ev.AuctionID)
	return nil
}

// ViewCommand renders the in-game command that opens the auction. The
// command form takes the id without separators.
func ViewCommand(ev model.FlipEvent) string {
	return "/viewauction " + strings.ReplaceAll(ev.AuctionID, "-", "")
}
