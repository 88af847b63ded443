package entities

import "strings"

// OptionsCount is the number of answer options every question carries.
const OptionsCount = 4

// Question is a single multiple-choice question.
// The Original* fields come from the source and never change; the Current* fields
// are the presentation order produced by the last answer shuffle.
type Question struct {
	ID              string   // stable identifier derived from source position and content
	Category        string   // grouping key used for session selection
	Text            string   // prompt
	OriginalOptions []string // exactly OptionsCount options in source order
	OriginalCorrect int      // index into OriginalOptions
	Image           string   // optional chart/diagram reference
	Explanation     string   // optional text shown after answering

	CurrentOptions []string // permutation of OriginalOptions
	CurrentCorrect int      // index into CurrentOptions
	Permutation    []int    // CurrentOptions[k] == OriginalOptions[Permutation[k]]
}

// NewQuestion creates a question whose presentation order equals the source order.
func NewQuestion(id, category, text string, options []string, correct int, image, explanation string) Question {
	q := Question{
		ID:              id,
		Category:        category,
		Text:            text,
		OriginalOptions: append([]string(nil), options...),
		OriginalCorrect: correct,
		Image:           image,
		Explanation:     explanation,
	}
	q.ResetOptions()
	return q
}

// ResetOptions restores the presentation order to the source order.
func (q *Question) ResetOptions() {
	q.Permutation = make([]int, len(q.OriginalOptions))
	for i := range q.Permutation {
		q.Permutation[i] = i
	}
	q.ApplyPermutation(q.Permutation)
}

// ApplyPermutation routes both the options and the correct pointer through perm,
// where perm[k] is the original index shown at position k.
func (q *Question) ApplyPermutation(perm []int) {
	q.Permutation = perm
	q.CurrentOptions = make([]string, len(perm))
	for k, orig := range perm {
		q.CurrentOptions[k] = q.OriginalOptions[orig]
		if orig == q.OriginalCorrect {
			q.CurrentCorrect = k
		}
	}
}

// CorrectAnswer returns the text of the correct option.
func (q *Question) CorrectAnswer() string {
	return q.OriginalOptions[q.OriginalCorrect]
}

// Clone returns a deep copy, so shuffles on the copy never touch the receiver.
func (q *Question) Clone() Question {
	c := *q
	c.OriginalOptions = append([]string(nil), q.OriginalOptions...)
	c.CurrentOptions = append([]string(nil), q.CurrentOptions...)
	c.Permutation = append([]int(nil), q.Permutation...)
	return c
}

// Matches reports whether the lowercase query occurs in the question text,
// its options or its explanation.
func (q *Question) Matches(lowerQuery string) bool {
	if containsFold(q.Text, lowerQuery) || containsFold(q.Explanation, lowerQuery) {
		return true
	}
	for _, opt := range q.OriginalOptions {
		if containsFold(opt, lowerQuery) {
			return true
		}
	}
	return false
}

// QuestionView is the read-only projection of a question a UI renders.
type QuestionView struct {
	ID          string   `json:"id"`
	Category    string   `json:"category"`
	Text        string   `json:"text"`
	Options     []string `json:"options"`
	Image       string   `json:"image,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
}

// View returns the current presentation of the question without the answer key.
func (q *Question) View() QuestionView {
	return QuestionView{
		ID:          q.ID,
		Category:    q.Category,
		Text:        q.Text,
		Options:     append([]string(nil), q.CurrentOptions...),
		Image:       q.Image,
		Explanation: q.Explanation,
	}
}

// Category is a category name with the number of questions in it.
type Category struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func containsFold(s, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(s), lowerQuery)
}
