package repositories

import (
	"context"

	"github.com/codequest/back/internal/models"
)

type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

type ChallengeRepository interface {
	Create(ctx context.Context, challenge *models.Challenge) error
	// 承認済みのチャレンジのみ取得
	GetApprovedByID(ctx context.Context, id int64) (*models.Challenge, error)
	// 難易度フィルターとフリーワード検索（タイトル・説明・作成者名の部分一致）
	ListApproved(ctx context.Context, difficulty, query string, limit, offset int) ([]*models.Challenge, error)
	CountApproved(ctx context.Context, difficulty, query string) (int, error)
}

type SolutionRepository interface {
	Create(ctx context.Context, solution *models.ChallengeSolution) error
	// ユーザーの最新の解答（submitted_at降順の先頭）、存在しない場合はnil
	GetLatestByChallengeAndUser(ctx context.Context, challengeID, userID int64) (*models.ChallengeSolution, error)
	// 一覧ページ用: 指定チャレンジ群に対するユーザーの解答をまとめて取得
	ListByUserAndChallengeIDs(ctx context.Context, userID int64, challengeIDs []int64) ([]*models.ChallengeSolution, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByToken(ctx context.Context, token string) (*models.Session, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) error
}
