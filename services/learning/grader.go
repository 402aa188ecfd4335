package learning

import (
	"strconv"

	courseModels "learnsphere/models/course"
)

// PassPercent is the share of attainable points needed to pass a quiz.
const PassPercent = 70

// Verdict is the outcome of grading one submission.
type Verdict struct {
	Score     int  `json:"score"`
	MaxPoints int  `json:"max_points"`
	Passed    bool `json:"passed"`
}

// Grade scores answers against questions. answers is keyed by the decimal
// question id; anything that is not a string equal to the correct answer
// scores nothing. A quiz worth zero points always passes.
func Grade(questions []courseModels.QuizQuestion, answers map[string]any) Verdict {
	var v Verdict
	for _, q := range questions {
		v.MaxPoints += q.Points
		given, ok := answers[strconv.FormatUint(uint64(q.ID), 10)].(string)
		if ok && given == q.CorrectAnswer {
			v.Score += q.Points
		}
	}
	v.Passed = v.MaxPoints == 0 || v.Score*100 >= v.MaxPoints*PassPercent
	return v
}
