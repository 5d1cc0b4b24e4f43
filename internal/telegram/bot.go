package telegram

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"grocy-planner/internal/config"
	"grocy-planner/internal/logger"
	"grocy-planner/internal/metrics"
	"grocy-planner/internal/planner"
	"grocy-planner/internal/shopping"
)

const generationTimeout = 2 * time.Minute

// Service is what the bot needs from the application.
type Service interface {
	GenerateShoppingList(ctx context.Context, start, end time.Time) (*shopping.List, error)
	Usage(ctx context.Context, days int) ([]metrics.DailyUsage, error)
}

// Bot wraps the Telegram API and the shopping list service.
type Bot struct {
	api      *tgbotapi.BotAPI
	service  Service
	cfg      *config.Config
	dataPath string
	log      *logger.Logger
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, service Service, dataPath string, log *logger.Logger) (*Bot, error) {
	if log == nil {
		log = logger.Nop()
	}

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	log.Info("telegram bot authorized", "account", bot.Self.UserName)

	wh, err := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	if err != nil {
		return nil, fmt.Errorf("failed to build webhook for %s: %w", cfg.TelegramWebhookURL, err)
	}
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	log.Info("webhook set", "description", resp.Description)

	return &Bot{
		api:      bot,
		service:  service,
		cfg:      cfg,
		dataPath: dataPath,
		log:      log,
	}, nil
}

// RegisterHandlers registers the webhook handler on mux.
func (b *Bot) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/webhook", b.handleWebhook)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		b.log.Warn("failed to parse update", "error", err)
		return
	}

	if update.CallbackQuery != nil {
		if !isAllowed(b.cfg.TelegramAllowedUserIDs, update.CallbackQuery.From.ID) {
			return
		}
		go b.handleCallbackQuery(update.CallbackQuery)
		return
	}

	if update.Message == nil || update.Message.From == nil {
		return
	}

	if !isAllowed(b.cfg.TelegramAllowedUserIDs, update.Message.From.ID) {
		b.log.Warn("unauthorized access attempt",
			"user_id", update.Message.From.ID,
			"username", update.Message.From.UserName,
		)
		return
	}

	go b.processMessage(update.Message)
}

func isAllowed(allowed []int64, userID int64) bool {
	return slices.Contains(allowed, userID)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "metrics":
		b.handleMetricsRequest(msg)
	case "shopping", "start", "":
		b.handleShoppingRequest(msg)
	default:
		b.send(msg.Chat.ID, "Unknown command. Use `/shopping [start end]`.")
	}
}

func (b *Bot) handleMetricsRequest(msg *tgbotapi.Message) {
	if msg.From.ID != b.cfg.AdminTelegramID {
		b.send(msg.Chat.ID, "⛔ *Access Denied*: Admin only.")
		return
	}
	b.handleMetricsCommand(msg.Chat.ID)
}

func (b *Bot) handleShoppingRequest(msg *tgbotapi.Message) {
	start, end, err := parseShoppingArgs(msg.CommandArguments(), time.Now())
	if err != nil {
		b.send(msg.Chat.ID, fmt.Sprintf("❌ %s\nUsage: `/shopping [YYYY-MM-DD YYYY-MM-DD]`", err.Error()))
		return
	}

	replyMsg := tgbotapi.NewMessage(msg.Chat.ID, "🛒 *Building your shopping list...*")
	replyMsg.ParseMode = "Markdown"
	sentMsg, err := b.api.Send(replyMsg)
	if err != nil {
		b.log.Error("failed to send initial reply", "error", err)
		return
	}

	b.generateAndSendList(msg.Chat.ID, sentMsg.MessageID, start, end)
}

// handleCallbackQuery handles the "following week" button. Data is "week|YYYY-MM-DD".
func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	if query.Message == nil {
		return
	}
	action, day, ok := strings.Cut(query.Data, "|")
	if !ok || action != "week" {
		return
	}
	monday, err := time.Parse(planner.DateLayout, day)
	if err != nil {
		return
	}

	b.api.Request(tgbotapi.NewCallback(query.ID, ""))

	edit := tgbotapi.NewEditMessageText(query.Message.Chat.ID, query.Message.MessageID, "🛒 *Building your shopping list...*")
	edit.ParseMode = "Markdown"
	b.api.Send(edit)

	start, end := planner.WeekRange(monday)
	b.generateAndSendList(query.Message.Chat.ID, query.Message.MessageID, start, end)
}

func (b *Bot) generateAndSendList(chatID int64, messageID int, start, end time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), generationTimeout)
	defer cancel()

	list, err := b.service.GenerateShoppingList(ctx, start, end)
	if err != nil {
		b.log.Error("failed to generate shopping list", "error", err)
		safeErr := strings.ReplaceAll(err.Error(), "`", "'")
		edit := tgbotapi.NewEditMessageText(chatID, messageID, fmt.Sprintf("❌ *Error generating shopping list:*\n```\n%v\n```", safeErr))
		edit.ParseMode = "Markdown"
		b.api.Send(edit)
		return
	}

	following := start.AddDate(0, 0, 7).Format(planner.DateLayout)
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⏭️ Following Week", "week|"+following),
		),
	)

	edit := tgbotapi.NewEditMessageText(chatID, messageID, formatShoppingListMarkdown(list))
	edit.ParseMode = "Markdown"
	edit.ReplyMarkup = &keyboard
	b.api.Send(edit)
}

// parseShoppingArgs reads "[start end]". Without arguments the range is the
// week after now.
func parseShoppingArgs(args string, now time.Time) (time.Time, time.Time, error) {
	fields := strings.Fields(args)
	switch len(fields) {
	case 0:
		start, end := planner.WeekRange(planner.GetNextMonday(now))
		return start, end, nil
	case 2:
		start, err := time.Parse(planner.DateLayout, fields[0])
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start date %q", fields[0])
		}
		end, err := time.Parse(planner.DateLayout, fields[1])
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end date %q", fields[1])
		}
		if end.Before(start) {
			return time.Time{}, time.Time{}, shopping.ErrInvalidRange
		}
		return start, end, nil
	default:
		return time.Time{}, time.Time{}, errors.New("expected no dates or a start and an end date")
	}
}

func formatShoppingListMarkdown(list *shopping.List) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🛒 *Shopping List* (%s to %s)\n\n", list.StartDate, list.EndDate))

	if len(list.Items) == 0 {
		sb.WriteString("_Everything is in stock_\n")
	}
	for _, item := range list.Items {
		sb.WriteString(fmt.Sprintf("• %s: %s", escapeMarkdown(item.ProductName), formatAmount(item.ToBuyAmount)))
		if item.QuName != "" {
			sb.WriteString(" " + escapeMarkdown(item.QuName))
		}
		if item.StockAmount > 0 {
			sb.WriteString(fmt.Sprintf(" _(have %s)_", formatAmount(item.StockAmount)))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("\n🍽 %d recipes, %d homemade products resolved\n", list.RecipesProcessed, list.HomemadeProductsResolved))
	return sb.String()
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

func (b *Bot) handleMetricsCommand(chatID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	usage, err := b.service.Usage(ctx, 7)
	if err != nil {
		b.log.Error("failed to fetch metrics", "error", err)
		b.send(chatID, "❌ Error fetching metrics.")
		return
	}

	b.send(chatID, formatMetricsReport(usage, metrics.GetSysHealth(b.dataPath)))
}

func formatMetricsReport(usage []metrics.DailyUsage, health metrics.SysHealth) string {
	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent Generations*\n")
	if len(usage) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range usage {
		sb.WriteString(fmt.Sprintf("• *%s*: %d lists, %d items (avg %dms)\n", d.Date, d.Generations, d.TotalItems, d.AverageLatencyMS))
	}

	sb.WriteString("\n🧠 *System Health*\n")
	sb.WriteString(fmt.Sprintf("• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", health.Goroutines))
	sb.WriteString(fmt.Sprintf("• Disk Data: %s\n", health.DataDiskSize))
	return sb.String()
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	if _, err := b.api.Send(msg); err != nil {
		b.log.Warn("failed to send message", "chat_id", chatID, "error", err)
	}
}
