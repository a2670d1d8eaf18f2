package models

import "time"

const (
	AttemptInProgress = "in_progress"
	AttemptCompleted  = "completed"
)

type Attempt struct {
	ID        int64      `json:"id"`
	QuizID    int64      `json:"quiz_id"`
	UserID    int64      `json:"user_id"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	Score     *float64   `json:"score"`
	Status    string     `json:"status"`
	Responses []Response `json:"responses"`
}

type Response struct {
	ID               int64 `json:"id"`
	AttemptID        int64 `json:"attempt_id"`
	QuestionID       int64 `json:"question_id"`
	SelectedOptionID int64 `json:"selected_option_id"`
	MarksObtained    int   `json:"marks_obtained"`
}

type ResponseInput struct {
	QuestionID       int64 `json:"question_id" validate:"required,gt=0"`
	SelectedOptionID int64 `json:"selected_option_id" validate:"required,gt=0"`
}

type SubmitAttemptRequest struct {
	Responses []ResponseInput `json:"responses" validate:"dive"`
}

type StartAttemptResponse struct {
	AttemptID int64         `json:"attempt_id"`
	Quiz      *ResolvedQuiz `json:"quiz"`
}

// UserResponse summarizes a user's latest attempt at a quiz.
type UserResponse struct {
	AttemptID int64           `json:"attempt_id"`
	StartTime time.Time       `json:"start_time"`
	EndTime   *time.Time      `json:"end_time"`
	Status    string          `json:"status"`
	Responses []AnswerSummary `json:"responses"`
}

type AnswerSummary struct {
	QuestionID       int64 `json:"question_id"`
	SelectedOptionID int64 `json:"selected_option_id"`
}

type Score struct {
	UserID         int64     `json:"user_id"`
	Score          float64   `json:"score"`
	CorrectAnswers int       `json:"correct_answers"`
	TotalQuestions int       `json:"total_questions"`
	CompletionTime time.Time `json:"completion_time"`
}
