package models

import "time"

type Challenge struct {
	ID            int64     `json:"id" db:"id"`
	Title         string    `json:"title" db:"title"`
	Description   string    `json:"description" db:"description"`
	Difficulty    string    `json:"difficulty" db:"difficulty"`
	Hints         []string  `json:"hints" db:"hints"`
	CreatedBy     int64     `json:"created_by" db:"created_by"`
	CreatorName   string    `json:"creator_name" db:"creator_name"`
	IsAIGenerated bool      `json:"is_ai_generated" db:"is_ai_generated"`
	IsApproved    bool      `json:"is_approved" db:"is_approved"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

type ChallengeSolution struct {
	ID               int64     `json:"id" db:"id"`
	ChallengeID      int64     `json:"challenge_id" db:"challenge_id"`
	UserID           int64     `json:"user_id" db:"user_id"`
	SolutionText     string    `json:"solution_text" db:"solution_text"`
	IsCorrect        bool      `json:"is_correct" db:"is_correct"`
	CorrectnessLevel string    `json:"correctness_level" db:"correctness_level"`
	AIFeedback       string    `json:"ai_feedback" db:"ai_feedback"`
	SubmittedAt      time.Time `json:"submitted_at" db:"submitted_at"`
}

// GenerationResult is what the AI collaborator returns for a generation call:
// the raw completion text plus the hint_1..hint_3 side channel.
type GenerationResult struct {
	Raw   string            `json:"raw"`
	Hints map[string]string `json:"hints"`
}

// ChallengeDraft is the parsed, normalized form of a generated challenge
// before it is persisted. Hints always holds exactly 3 non-blank entries.
type ChallengeDraft struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Hints       []string `json:"hints"`
}

type CreateChallengeRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Difficulty  string   `json:"difficulty" validate:"required"`
	Hints       []string `json:"hints"`
}

type SubmitSolutionRequest struct {
	SolutionText string `json:"solution_text" validate:"required"`
}

type GenerateChallengeRequest struct {
	Difficulty string `json:"difficulty"`
	Topic      string `json:"topic"`
}

// ChallengeList is the paginated listing the challenge list endpoint returns.
type ChallengeList struct {
	Challenges       []*Challenge                 `json:"challenges"`
	TotalChallenges  int                          `json:"total_challenges"`
	TotalPages       int                          `json:"total_pages"`
	CurrentPage      int                          `json:"current_page"`
	HasPrev          bool                         `json:"has_prev"`
	HasNext          bool                         `json:"has_next"`
	PageRange        []int                        `json:"page_range"`
	DifficultyFilter string                       `json:"difficulty_filter"`
	Query            string                       `json:"query"`
	UserSolutions    map[int64]*ChallengeSolution `json:"user_solutions"`
}
