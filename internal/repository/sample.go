package repository

import "github.com/aliskhannn/quiz-deck-bot/internal/domain/entities"

// SampleQuestions returns the built-in question set used when no source can be loaded.
func SampleQuestions() []entities.Question {
	samples := []struct {
		category    string
		text        string
		options     []string
		correct     int
		explanation string
	}{
		{"Math", "What is 2+2?", []string{"3", "4", "5", "6"}, 1, "Basic addition gives 4"},
		{"Math", "What is 3×7?", []string{"18", "21", "24", "28"}, 1, "3 times 7 equals 21"},
		{"Science", "What is H₂O?", []string{"Oxygen", "Hydrogen", "Water", "Carbon Dioxide"}, 2, "H₂O is the chemical formula for water"},
		{"Science", "Which planet is known as the Red Planet?", []string{"Venus", "Mars", "Jupiter", "Saturn"}, 1, "Mars appears red due to iron oxide on its surface"},
		{"History", "Who was the first president of the USA?", []string{"Thomas Jefferson", "John Adams", "George Washington", "Abraham Lincoln"}, 2, "George Washington served from 1789 to 1797"},
	}

	questions := make([]entities.Question, 0, len(samples))
	for i, s := range samples {
		questions = append(questions, entities.NewQuestion(
			questionID(i+1, s.category, s.text),
			s.category,
			s.text,
			s.options,
			s.correct,
			"",
			s.explanation,
		))
	}

	return questions
}
