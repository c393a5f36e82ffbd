// Package quiz scores quiz submissions and tracks attempts and best-of
// summaries per learner.
package quiz

import (
	"math"

	"coursetrack/models/course"
)

// Result is the outcome of grading one submission.
type Result struct {
	Answers       []course.GradedAnswer `json:"answers"`
	CorrectCount  int                   `json:"correct_count"`
	QuestionCount int                   `json:"question_count"`
	Score         int                   `json:"score"`
	Passed        bool                  `json:"passed"`
}

// Grade scores submitted against the quiz's answer key. It has no side
// effects. A question without a submitted answer is incorrect; if the same
// question id is submitted twice the first entry is used.
func Grade(q *course.Quiz, submitted []course.SubmittedAnswer) Result {
	byQuestion := make(map[string]course.SubmittedAnswer, len(submitted))
	for _, a := range submitted {
		if _, seen := byQuestion[a.QuestionID]; !seen {
			byQuestion[a.QuestionID] = a
		}
	}

	res := Result{
		Answers:       make([]course.GradedAnswer, 0, len(q.Questions)),
		QuestionCount: len(q.Questions),
	}
	for _, question := range q.Questions {
		graded := course.GradedAnswer{QuestionID: question.ID}
		if a, ok := byQuestion[question.ID]; ok {
			graded.GivenAnswer = givenValues(a)
			graded.IsCorrect = isCorrect(question, a)
		}
		if graded.IsCorrect {
			res.CorrectCount++
		}
		res.Answers = append(res.Answers, graded)
	}

	res.Score = Score(res.CorrectCount, res.QuestionCount)
	res.Passed = res.Score >= q.PassingScore && res.QuestionCount > 0
	return res
}

// Score returns round(100*correct/total), or 0 for an empty quiz.
func Score(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(total)))
}

func isCorrect(q course.Question, a course.SubmittedAnswer) bool {
	switch q.Type {
	case course.QuestionSingleChoice, course.QuestionTrueFalse:
		v, ok := singleValue(a)
		return ok && v == q.CorrectAnswer
	case course.QuestionMultipleSelect:
		return sameSet(a.Values, q.CorrectAnswers)
	default:
		return false
	}
}

func singleValue(a course.SubmittedAnswer) (string, bool) {
	if a.Value != "" {
		return a.Value, true
	}
	if len(a.Values) == 1 {
		return a.Values[0], true
	}
	return "", false
}

func givenValues(a course.SubmittedAnswer) []string {
	if len(a.Values) > 0 {
		return append([]string(nil), a.Values...)
	}
	if a.Value != "" {
		return []string{a.Value}
	}
	return []string{}
}

// sameSet compares as sets: order and duplicates are ignored.
func sameSet(given, want []string) bool {
	g := toSet(given)
	w := toSet(want)
	if len(g) != len(w) {
		return false
	}
	for v := range w {
		if _, ok := g[v]; !ok {
			return false
		}
	}
	return true
}

func toSet(values []string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, v := range values {
		out[v] = struct{}{}
	}
	return out
}
