package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/codequest/back/internal/models"
	"github.com/jmoiron/sqlx"
)

type MySQLChallengeRepository struct {
	db *sqlx.DB
}

func NewMySQLChallengeRepository(db *sqlx.DB) ChallengeRepository {
	return &MySQLChallengeRepository{db: db}
}

const challengeColumns = `
	c.id, c.title, c.description, c.difficulty, c.hints, c.created_by, u.username,
	c.is_ai_generated, c.is_approved, c.created_at, c.updated_at
`

// 共通のスキャン処理（hintsはJSONカラム）
func (r *MySQLChallengeRepository) scanChallenge(rows *sql.Rows) (*models.Challenge, error) {
	var challenge models.Challenge
	var hintsJSON []byte

	err := rows.Scan(
		&challenge.ID,
		&challenge.Title,
		&challenge.Description,
		&challenge.Difficulty,
		&hintsJSON,
		&challenge.CreatedBy,
		&challenge.CreatorName,
		&challenge.IsAIGenerated,
		&challenge.IsApproved,
		&challenge.CreatedAt,
		&challenge.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(hintsJSON) > 0 {
		if err := json.Unmarshal(hintsJSON, &challenge.Hints); err != nil {
			return nil, fmt.Errorf("failed to unmarshal hints: %w", err)
		}
	}

	return &challenge, nil
}

// 共通のスキャン処理（単一行用）
func (r *MySQLChallengeRepository) scanChallengeRow(row *sql.Row) (*models.Challenge, error) {
	var challenge models.Challenge
	var hintsJSON []byte

	err := row.Scan(
		&challenge.ID,
		&challenge.Title,
		&challenge.Description,
		&challenge.Difficulty,
		&hintsJSON,
		&challenge.CreatedBy,
		&challenge.CreatorName,
		&challenge.IsAIGenerated,
		&challenge.IsApproved,
		&challenge.CreatedAt,
		&challenge.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(hintsJSON) > 0 {
		if err := json.Unmarshal(hintsJSON, &challenge.Hints); err != nil {
			return nil, fmt.Errorf("failed to unmarshal hints: %w", err)
		}
	}

	return &challenge, nil
}

func (r *MySQLChallengeRepository) Create(ctx context.Context, challenge *models.Challenge) error {
	hintsJSON, err := json.Marshal(challenge.Hints)
	if err != nil {
		return fmt.Errorf("failed to marshal hints: %w", err)
	}

	query := `
		INSERT INTO challenges (title, description, difficulty, hints, created_by, is_ai_generated, is_approved, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
	`

	result, err := r.db.ExecContext(ctx, query,
		challenge.Title,
		challenge.Description,
		challenge.Difficulty,
		hintsJSON,
		challenge.CreatedBy,
		challenge.IsAIGenerated,
		challenge.IsApproved,
	)
	if err != nil {
		return fmt.Errorf("failed to create challenge: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	challenge.ID = id
	return nil
}

func (r *MySQLChallengeRepository) GetApprovedByID(ctx context.Context, id int64) (*models.Challenge, error) {
	query := `
		SELECT ` + challengeColumns + `
		FROM challenges c
		JOIN users u ON u.id = c.created_by
		WHERE c.id = ? AND c.is_approved = TRUE
	`

	row := r.db.QueryRowContext(ctx, query, id)
	challenge, err := r.scanChallengeRow(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("challenge not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}

	return challenge, nil
}

func (r *MySQLChallengeRepository) ListApproved(ctx context.Context, difficulty, query string, limit, offset int) ([]*models.Challenge, error) {
	sqlQuery := `
		SELECT ` + challengeColumns + `
		FROM challenges c
		JOIN users u ON u.id = c.created_by
		WHERE c.is_approved = TRUE`

	queryArgs := []interface{}{}

	// 難易度での絞り込み
	if difficulty != "" {
		sqlQuery += " AND c.difficulty = ?"
		queryArgs = append(queryArgs, difficulty)
	}

	// フリーワード検索（タイトル・説明・作成者名の部分一致）
	if query != "" {
		sqlQuery += " AND (c.title LIKE ? OR c.description LIKE ? OR u.username LIKE ?)"
		searchPattern := "%" + query + "%"
		queryArgs = append(queryArgs, searchPattern, searchPattern, searchPattern)
	}

	sqlQuery += " ORDER BY c.created_at DESC, c.id DESC LIMIT ? OFFSET ?"
	queryArgs = append(queryArgs, limit, offset)

	rows, err := r.db.QueryContext(ctx, sqlQuery, queryArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}
	defer rows.Close()

	var challenges []*models.Challenge
	for rows.Next() {
		challenge, err := r.scanChallenge(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan challenge: %w", err)
		}
		challenges = append(challenges, challenge)
	}

	return challenges, nil
}

func (r *MySQLChallengeRepository) CountApproved(ctx context.Context, difficulty, query string) (int, error) {
	sqlQuery := `
		SELECT COUNT(*)
		FROM challenges c
		JOIN users u ON u.id = c.created_by
		WHERE c.is_approved = TRUE`

	queryArgs := []interface{}{}

	if difficulty != "" {
		sqlQuery += " AND c.difficulty = ?"
		queryArgs = append(queryArgs, difficulty)
	}

	if query != "" {
		sqlQuery += " AND (c.title LIKE ? OR c.description LIKE ? OR u.username LIKE ?)"
		searchPattern := "%" + query + "%"
		queryArgs = append(queryArgs, searchPattern, searchPattern, searchPattern)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, sqlQuery, queryArgs...); err != nil {
		return 0, fmt.Errorf("failed to count challenges: %w", err)
	}

	return count, nil
}
