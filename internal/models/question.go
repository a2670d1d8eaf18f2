package models

type Question struct {
	ID      int64            `json:"id"`
	Text    string           `json:"question_text"`
	Options []QuestionOption `json:"options"`
}

// QuestionOption.IsCorrect is nil when the answer key has been withheld.
type QuestionOption struct {
	ID         int64  `json:"id"`
	QuestionID int64  `json:"-"`
	Text       string `json:"option_text"`
	IsCorrect  *bool  `json:"is_correct,omitempty"`
}

// WithoutAnswers returns a copy of q with every answer key removed.
func (q Question) WithoutAnswers() Question {
	out := q
	out.Options = make([]QuestionOption, len(q.Options))
	for i, opt := range q.Options {
		opt.IsCorrect = nil
		out.Options[i] = opt
	}
	return out
}
