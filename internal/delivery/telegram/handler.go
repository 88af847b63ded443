package telegram

import (
	"context"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Options tune the quiz presentation.
type Options struct {
	AutoAdvanceDelay time.Duration // delay before moving on after a correct answer, 0 disables
	ImagesDir        string        // base directory of relative question images
}

type Handler struct {
	bot          Bot
	logger       *zap.Logger
	quizService  QuizService
	statsService StatsService
	access       AccessService
	messages     MessageStorage
	opts         Options
}

func NewHandler(
	bot Bot,
	logger *zap.Logger,
	quizService QuizService,
	statsService StatsService,
	access AccessService,
	messages MessageStorage,
	opts Options,
) *Handler {
	return &Handler{
		bot:          bot,
		logger:       logger,
		quizService:  quizService,
		statsService: statsService,
		access:       access,
		messages:     messages,
		opts:         opts,
	}
}

// Commands is the command menu registered with Telegram.
func Commands() []tgbotapi.BotCommand {
	return []tgbotapi.BotCommand{
		{Command: "start", Description: "Start the bot"},
		{Command: "categories", Description: "Choose a category"},
		{Command: "search", Description: "Quiz on questions matching words"},
		{Command: "next", Description: "Next question"},
		{Command: "prev", Description: "Previous question"},
		{Command: "shuffle", Description: "Reshuffle questions and answers"},
		{Command: "shuffle_answers", Description: "Reshuffle current answers"},
		{Command: "stats", Description: "Score and history"},
		{Command: "reload", Description: "Reload questions"},
		{Command: "logout", Description: "Lock the quiz"},
		{Command: "help", Description: "Help"},
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)
	defer h.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	chatID := update.Message.Chat.ID
	h.logger.Debug("update received",
		zap.Int64("chat_id", chatID),
		zap.Bool("command", update.Message.IsCommand()),
	)

	if !update.Message.IsCommand() {
		_ = h.withErrorHandling(h.handleText(update.Message.Text))(ctx, chatID)
		return
	}

	args := update.Message.CommandArguments()

	var fn HandlerFunc
	switch update.Message.Command() {
	case "start":
		fn = h.handleStart()
	case "help":
		fn = h.handleHelp()
	case "categories":
		fn = h.withAccess(h.handleCategories())
	case "search":
		fn = h.withAccess(h.handleSearch(args))
	case "next":
		fn = h.withAccess(h.handleNext())
	case "prev":
		fn = h.withAccess(h.handlePrev())
	case "shuffle":
		fn = h.withAccess(h.handleShuffle())
	case "shuffle_answers":
		fn = h.withAccess(h.handleShuffleAnswers())
	case "stats":
		fn = h.withAccess(h.handleStats())
	case "reload":
		fn = h.withAccess(h.handleReload())
	case "logout":
		fn = h.handleLogout()
	default:
		fn = func(_ context.Context, chatID int64) error {
			return h.send(newPlainMessage(chatID, msgUnknownCommand))
		}
	}

	_ = h.withErrorHandling(fn)(ctx, chatID)
}

func (h *Handler) send(c tgbotapi.Chattable) error {
	_, err := h.sendMessage(c)
	return err
}

func (h *Handler) sendMessage(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	msg, err := h.bot.Send(c)
	if err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
	return msg, err
}

// answerCallback removes the loading indicator of a button, optionally showing a toast.
func (h *Handler) answerCallback(id, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(id, text)); err != nil {
		h.logger.Debug("callback answer error", zap.Error(err))
	}
}

// chatKey is the session and access key of a chat.
func chatKey(chatID int64) string {
	return "tg:" + strconv.FormatInt(chatID, 10)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
