package telegram

import (
	"fmt"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/quiz-deck-bot/internal/domain/entities"
)

const (
	categoriesPerRow = 2
	maxButtonRunes   = 40
)

// buildCategoryKeyboard builds the category grid.
func buildCategoryKeyboard(categories []entities.Category) tgbotapi.InlineKeyboardMarkup {
	var (
		rows [][]tgbotapi.InlineKeyboardButton
		row  []tgbotapi.InlineKeyboardButton
	)
	for i, c := range categories {
		label := fmt.Sprintf("%s (%d)", c.Name, c.Count)
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(truncate(label), buildCategoryCallback(i, c.Name)))
		if len(row) == categoriesPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildAnswerKeyboard builds one button per option plus the navigation row.
func buildAnswerKeyboard(v entities.SessionView) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, opt := range v.Question.Options {
		label := fmt.Sprintf("%c. %s", optionLetters[i], opt)
		button := tgbotapi.NewInlineKeyboardButtonData(truncate(label), buildAnswerCallback(v.Generation, i))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(button))
	}

	rows = append(rows, buildNavRow(v.Progress))
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔀 Answers", buildNavCallback(navShuffleAnswers)),
		tgbotapi.NewInlineKeyboardButtonData("🏁 Finish", buildNavCallback(navFinish)),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildFeedbackKeyboard builds the keyboard shown under an answered question.
func buildFeedbackKeyboard(p entities.Progress) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		buildNavRow(p),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏁 Finish", buildNavCallback(navFinish)),
		),
	)
}

// buildCompletionKeyboard builds keyboard for the end of a category.
func buildCompletionKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔁 Play again", buildNavCallback(navShuffle)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📚 Categories", buildNavCallback(navCategories)),
		),
	)
}

func buildCategoriesButtonKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📚 Categories", buildNavCallback(navCategories)),
		),
	)
}

func buildNavRow(p entities.Progress) []tgbotapi.InlineKeyboardButton {
	var row []tgbotapi.InlineKeyboardButton
	if p.Index > 0 {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("◀️ Prev", buildNavCallback(navPrev)))
	}
	row = append(row, tgbotapi.NewInlineKeyboardButtonData("🔀 Shuffle", buildNavCallback(navShuffle)))

	next := "Next ▶️"
	if p.Index >= p.Total-1 {
		next = "Done 🏁"
	}
	row = append(row, tgbotapi.NewInlineKeyboardButtonData(next, buildNavCallback(navNext)))

	return row
}

// removeKeyboard returns an empty keyboard that clears the buttons of a message.
func removeKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}}
}

func truncate(s string) string {
	if utf8.RuneCountInString(s) <= maxButtonRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxButtonRunes-1]) + "…"
}
