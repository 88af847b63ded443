// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/quiz-deck-bot/internal/domain/entities"
	"github.com/aliskhannn/quiz-deck-bot/internal/repository"
	"github.com/aliskhannn/quiz-deck-bot/internal/service"
)

// Plain text messages.
const (
	msgInternalError   = "Something went wrong. Please try again later."
	msgUnknownCommand  = "Unknown command. Send /help to see what I can do."
	msgWrongPassword   = "Wrong password. Try again."
	msgSearchUsage     = "Usage: /search <words>, for example /search planet"
	msgNoCategories    = "No questions are loaded yet. Try /reload."
	msgLoggedOut       = "You are logged out. Send the password to come back."
	msgAlreadyAnswered = "You have already answered this question."
	msgStaleQuestion   = "This question is no longer on screen."
	msgCategoryGone    = "That category is gone. Pick one again."
)

const (
	optionLetters   = "ABCD"
	progressBarSize = 10
	imageMissing    = "🖼 image unavailable"
)

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

func italic(s string) string {
	return "_" + md(s) + "_"
}

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}

// newPlainMessage creates a plain message without MarkdownV2 parse mode.
func newPlainMessage(chatID int64, text string) tgbotapi.MessageConfig {
	return tgbotapi.NewMessage(chatID, text)
}

// newEdit creates an edit with MarkdownV2 parse mode.
func newEdit(chatID int64, msgID int, text string) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	return edit
}

func msgWelcome(authorized bool) string {
	var sb strings.Builder

	sb.WriteString(bold("🧠 Quiz Deck"))
	sb.WriteString("\n\n")
	sb.WriteString(md("Multiple-choice questions by category, shuffled every time. "))
	sb.WriteString(md("Pick a category, answer, and watch your accuracy grow."))
	sb.WriteString("\n\n")

	if authorized {
		sb.WriteString(md("Choose a category below or send /help for all commands."))
	} else {
		sb.WriteString(md("Send the access password to begin."))
	}

	return sb.String()
}

func msgHelp() string {
	lines := []string{
		"/categories — choose a category",
		"/search <words> — quiz on matching questions",
		"/next, /prev — move between questions",
		"/shuffle — reshuffle questions and answers",
		"/shuffle_answers — reshuffle the current answers",
		"/stats — current score and history",
		"/reload — reload the question file",
		"/logout — lock the quiz again",
	}

	return bold("📖 Commands") + "\n\n" + md(strings.Join(lines, "\n"))
}

func msgPasswordPrompt() string {
	return bold("🔒 Locked") + "\n\n" + md("Send the access password to unlock the quiz.")
}

func msgUnlocked() string {
	return bold("🔓 Unlocked") + "\n\n" + md("Pick a category to start.")
}

func msgNoActiveQuiz() string {
	return md("There is no quiz running. Pick a category with /categories.")
}

func msgChooseCategory() string {
	return bold("📚 Categories") + "\n\n" + md("Pick a category to start a quiz.")
}

func msgNoQuestions(category string) string {
	return bold("🤷 No questions") + "\n\n" + md(fmt.Sprintf("There are no questions in %q.", category))
}

// formatQuestion renders the displayed question with its options.
func formatQuestion(v entities.SessionView, imageNote string) string {
	q := v.Question

	var sb strings.Builder
	sb.WriteString(md(fmt.Sprintf("%s · Question %d of %d", v.Category, v.Progress.Index+1, v.Progress.Total)))
	sb.WriteString("\n")
	sb.WriteString(md(buildProgressBar(v.Progress.Index+1, v.Progress.Total, progressBarSize)))
	sb.WriteString("\n\n")
	sb.WriteString(bold(q.Text))
	sb.WriteString("\n\n")

	for i, opt := range q.Options {
		sb.WriteString(md(fmt.Sprintf("%c. %s", optionLetters[i], opt)))
		sb.WriteString("\n")
	}

	if imageNote != "" {
		sb.WriteString("\n")
		sb.WriteString(italic(imageNote))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(md(formatScore(v.Stats)))

	return sb.String()
}

// formatFeedback renders the question after an answer: the options with the
// selected and the correct one marked, the verdict and the explanation.
func formatFeedback(v entities.SessionView, res entities.AnswerResult) string {
	q := v.Question

	var sb strings.Builder
	sb.WriteString(md(fmt.Sprintf("%s · Question %d of %d", v.Category, v.Progress.Index+1, v.Progress.Total)))
	sb.WriteString("\n\n")
	sb.WriteString(bold(q.Text))
	sb.WriteString("\n\n")

	for i, opt := range q.Options {
		mark := "▫️"
		switch {
		case i == res.CorrectIndex:
			mark = "✅"
		case i == res.Selected:
			mark = "❌"
		}
		sb.WriteString(md(fmt.Sprintf("%s %c. %s", mark, optionLetters[i], opt)))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	if res.IsCorrect {
		sb.WriteString(bold("Correct!"))
	} else {
		sb.WriteString(bold("Wrong."))
		sb.WriteString(md(" The answer is "))
		sb.WriteString(bold(res.CorrectAnswer))
		sb.WriteString(md("."))
	}
	sb.WriteString("\n")

	if res.Explanation != "" {
		sb.WriteString("\n")
		sb.WriteString(italic(res.Explanation))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(md(formatScore(res.Stats)))

	return sb.String()
}

func formatCompletion(category string, stats entities.Stats) string {
	emoji, note := "📚", "Keep practicing!"
	switch {
	case stats.Attempted == 0:
		emoji, note = "🏁", "You skipped every question."
	case stats.Accuracy >= 90:
		emoji, note = "🏆", "Excellent!"
	case stats.Accuracy >= 70:
		emoji, note = "🎉", "Well done!"
	}

	return fmt.Sprintf(
		"%s\n\n%s\n%s\n\n%s",
		bold(emoji+" "+category+" complete"),
		md(fmt.Sprintf("Correct: %d of %d answered", stats.Correct, stats.Attempted)),
		md(fmt.Sprintf("Accuracy: %d%%", stats.Accuracy)),
		md(note),
	)
}

func formatScore(s entities.Stats) string {
	return fmt.Sprintf("Score: %d/%d · Accuracy: %d%%", s.Correct, s.Attempted, s.Accuracy)
}

func formatLoadResult(res repository.LoadResult) string {
	var sb strings.Builder

	sb.WriteString(bold("🔄 Questions reloaded"))
	sb.WriteString("\n\n")
	sb.WriteString(md(fmt.Sprintf("Loaded %d questions.", res.Questions)))

	if len(res.Rejected) > 0 {
		sb.WriteString("\n")
		sb.WriteString(md(fmt.Sprintf("Skipped %d invalid rows:", len(res.Rejected))))
		for i, rej := range res.Rejected {
			if i == 5 {
				sb.WriteString("\n")
				sb.WriteString(md(fmt.Sprintf("… and %d more", len(res.Rejected)-i)))
				break
			}
			sb.WriteString("\n")
			sb.WriteString(md("• " + rej.Error()))
		}
	}

	if res.FromSample {
		sb.WriteString("\n\n")
		sb.WriteString(italic("ℹ️ The question file could not be loaded, using the built-in sample questions."))
	}

	return sb.String()
}

func formatSessionStats(v entities.SessionView) string {
	return fmt.Sprintf(
		"%s\n\n%s\n%s\n%s\n%s",
		bold("📊 Current quiz: "+v.Category),
		md(buildProgressBar(v.Progress.Index+1, v.Progress.Total, progressBarSize)),
		md(fmt.Sprintf("✅ Correct: %d", v.Stats.Correct)),
		md(fmt.Sprintf("❌ Incorrect: %d", v.Stats.Incorrect)),
		md(fmt.Sprintf("🎯 Accuracy: %d%%", v.Stats.Accuracy)),
	)
}

func formatSummary(s *service.Summary) string {
	if s.Sessions == 0 {
		return bold("🗂 History") + "\n\n" + md("No finished quizzes yet.")
	}

	var sb strings.Builder
	sb.WriteString(bold("🗂 History"))
	sb.WriteString("\n\n")
	sb.WriteString(md(fmt.Sprintf("Quizzes: %d", s.Sessions)))
	sb.WriteString("\n")
	sb.WriteString(md(fmt.Sprintf("Answers: %d, correct: %d (%d%%)", s.Attempted, s.Correct, s.Accuracy)))

	if s.Best != nil {
		sb.WriteString("\n")
		sb.WriteString(md(fmt.Sprintf("Best: %s, %d/%d (%d%%)", s.Best.Category, s.Best.Correct, s.Best.Attempted, s.Best.Accuracy())))
	}

	if len(s.Recent) > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(bold("Recent"))
		for _, r := range s.Recent {
			sb.WriteString("\n")
			sb.WriteString(md(fmt.Sprintf("• %s  %s  %d/%d", r.FinishedAt.Format("02 Jan 15:04"), r.Category, r.Correct, r.Attempted)))
		}
	}

	return sb.String()
}

// buildProgressBar creates ASCII progress bar.
func buildProgressBar(current, total, length int) string {
	if total == 0 {
		return fmt.Sprintf("[%s]", strings.Repeat("░", length))
	}

	filled := int(float64(current) / float64(total) * float64(length))
	if filled > length {
		filled = length
	}

	empty := length - filled
	bar := strings.Repeat("█", filled) + strings.Repeat("░", empty)
	return fmt.Sprintf("[%s] %d/%d", bar, current, total)
}
