package models

import "time"

type Quiz struct {
	ID             int64          `json:"id"`
	CreatorID      int64          `json:"creator_id"`
	Title          string         `json:"title"`
	TotalQuestions int            `json:"total_questions"`
	TotalScore     int            `json:"total_score"`
	Duration       int            `json:"duration"` // minutes
	CreatedAt      time.Time      `json:"created_at"`
	Questions      []QuizQuestion `json:"questions"`
}

// QuizQuestion maps a catalog question into a quiz. Question is nil when the
// catalog row no longer exists.
type QuizQuestion struct {
	ID             int64     `json:"id"`
	QuizID         int64     `json:"quiz_id"`
	QuestionID     int64     `json:"question_id"`
	QuestionNumber *int      `json:"question_number"`
	Marks          int       `json:"marks"`
	Question       *Question `json:"question"`
}

type CreateQuizRequest struct {
	Title          string `json:"title" validate:"required,max=200"`
	TotalQuestions int    `json:"total_questions" validate:"gte=0"`
	TotalScore     int    `json:"total_score" validate:"gte=0"`
	Duration       int    `json:"duration" validate:"gte=0"`
}

type QuestionMapping struct {
	QuestionID     int64 `json:"question_id" validate:"required,gt=0"`
	QuestionNumber *int  `json:"question_number" validate:"omitempty,gte=0"`
	Marks          *int  `json:"marks" validate:"required,gte=0"`
}

type MapQuestionsRequest struct {
	Questions []QuestionMapping `json:"questions" validate:"dive"`
}

// ResolvedQuiz is the client-facing view of a quiz served before an attempt.
// Its option type has no answer key field.
type ResolvedQuiz struct {
	ID             int64              `json:"id"`
	Title          string             `json:"title"`
	Duration       int                `json:"duration"`
	TotalQuestions int                `json:"total_questions"`
	TotalScore     int                `json:"total_score"`
	CreatorID      int64              `json:"creator_id"`
	CreatedAt      time.Time          `json:"created_at"`
	Questions      []ResolvedQuestion `json:"questions"`
}

type ResolvedQuestion struct {
	ID      int64            `json:"id"`
	Text    string           `json:"text"`
	Marks   int              `json:"marks"`
	Options []ResolvedOption `json:"options"`
}

type ResolvedOption struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}
