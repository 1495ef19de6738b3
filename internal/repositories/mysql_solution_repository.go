package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/codequest/back/internal/models"
	"github.com/jmoiron/sqlx"
)

type MySQLSolutionRepository struct {
	db *sqlx.DB
}

func NewMySQLSolutionRepository(db *sqlx.DB) SolutionRepository {
	return &MySQLSolutionRepository{db: db}
}

func (r *MySQLSolutionRepository) Create(ctx context.Context, solution *models.ChallengeSolution) error {
	query := `
		INSERT INTO challenge_solutions (challenge_id, user_id, solution_text, is_correct, correctness_level, ai_feedback, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?, NOW())
	`

	result, err := r.db.ExecContext(ctx, query,
		solution.ChallengeID,
		solution.UserID,
		solution.SolutionText,
		solution.IsCorrect,
		solution.CorrectnessLevel,
		solution.AIFeedback,
	)
	if err != nil {
		return fmt.Errorf("failed to create solution: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	solution.ID = id
	return nil
}

func (r *MySQLSolutionRepository) GetLatestByChallengeAndUser(ctx context.Context, challengeID, userID int64) (*models.ChallengeSolution, error) {
	solution := &models.ChallengeSolution{}
	query := `
		SELECT id, challenge_id, user_id, solution_text, is_correct, correctness_level, ai_feedback, submitted_at
		FROM challenge_solutions
		WHERE challenge_id = ? AND user_id = ?
		ORDER BY submitted_at DESC, id DESC
		LIMIT 1
	`

	err := r.db.GetContext(ctx, solution, query, challengeID, userID)
	if err == sql.ErrNoRows {
		// 未提出は正常系
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get solution: %w", err)
	}

	return solution, nil
}

func (r *MySQLSolutionRepository) ListByUserAndChallengeIDs(ctx context.Context, userID int64, challengeIDs []int64) ([]*models.ChallengeSolution, error) {
	if len(challengeIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(challengeIDs)), ",")
	query := fmt.Sprintf(`
		SELECT id, challenge_id, user_id, solution_text, is_correct, correctness_level, ai_feedback, submitted_at
		FROM challenge_solutions
		WHERE user_id = ? AND challenge_id IN (%s)
		ORDER BY submitted_at DESC, id DESC
	`, placeholders)

	queryArgs := []interface{}{userID}
	for _, id := range challengeIDs {
		queryArgs = append(queryArgs, id)
	}

	var solutions []*models.ChallengeSolution
	if err := r.db.SelectContext(ctx, &solutions, query, queryArgs...); err != nil {
		return nil, fmt.Errorf("failed to list solutions: %w", err)
	}

	return solutions, nil
}
