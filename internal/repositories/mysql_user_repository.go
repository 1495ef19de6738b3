package repositories

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"

	"github.com/codequest/back/internal/models"
	"github.com/codequest/back/internal/utils"
	"github.com/jmoiron/sqlx"
)

type MySQLUserRepository struct {
	db *sqlx.DB
}

func NewMySQLUserRepository(db *sqlx.DB) UserRepository {
	repo := &MySQLUserRepository{db: db}

	// CSVからseedデータを読み込み
	if err := repo.loadSeedData(); err != nil {
		log.Printf("⚠️ seedデータの読み込みに失敗: %v", err)
	}

	return repo
}

func (r *MySQLUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM users WHERE username = ?
	`

	err := r.db.GetContext(ctx, user, query, username)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	return user, nil
}

func (r *MySQLUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM users WHERE id = ?
	`

	err := r.db.GetContext(ctx, user, query, id)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	return user, nil
}

func (r *MySQLUserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, NOW(), NOW())
	`

	result, err := r.db.ExecContext(ctx, query, user.Username, user.Email, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	user.ID = id
	return nil
}

// loadSeedData はCSVファイルからseedデータを読み込んでデータベースに挿入します
func (r *MySQLUserRepository) loadSeedData() error {
	// 既存のユーザー数をチェック
	var count int
	if err := r.db.Get(&count, "SELECT COUNT(*) FROM users"); err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}

	// 既にユーザーが存在する場合はseedデータの読み込みをスキップ
	if count > 0 {
		log.Printf("✅ 既存のユーザーが%d件存在するため、seedデータの読み込みをスキップします", count)
		return nil
	}

	file, err := os.Open("data/users.csv")
	if err != nil {
		return fmt.Errorf("failed to open seed file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}

	// ヘッダー行のみ、または空のファイルはスキップ
	if len(records) < 2 {
		log.Printf("⚠️ seedファイルにデータ行がありません")
		return nil
	}

	// ヘッダーをスキップ
	for i, record := range records[1:] {
		if len(record) < 3 {
			log.Printf("⚠️ 行%d: データが不完全です: %v", i+2, record)
			continue
		}

		// パスワードをハッシュ化
		hashedPassword, err := utils.HashPassword(record[2])
		if err != nil {
			log.Printf("⚠️ 行%d: パスワードハッシュ化に失敗: %v", i+2, err)
			continue
		}

		user := &models.User{
			Username:     record[0],
			Email:        record[1],
			PasswordHash: hashedPassword,
		}

		if err := r.Create(context.Background(), user); err != nil {
			log.Printf("⚠️ 行%d: ユーザー作成に失敗: %v", i+2, err)
			continue
		}

		log.Printf("📝 ユーザー追加: Username=%s, Email=%s", user.Username, user.Email)
	}

	log.Printf("✅ CSVファイルから %d 人のユーザーを読み込みました", len(records)-1)
	return nil
}
