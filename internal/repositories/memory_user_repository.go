package repositories

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/codequest/back/internal/models"
	"github.com/codequest/back/internal/utils"
)

type memoryUserRepository struct {
	users  map[string]*models.User
	nextID int64
	mutex  sync.RWMutex
}

func NewMemoryUserRepository() UserRepository {
	repo := &memoryUserRepository{
		users:  make(map[string]*models.User),
		nextID: 1,
		mutex:  sync.RWMutex{},
	}

	// seedデータを追加
	repo.seedData()

	return repo
}

func (r *memoryUserRepository) seedData() {
	// CSVファイルからユーザーデータを読み込み
	users, err := r.loadUsersFromCSV()
	if err != nil {
		log.Printf("⚠️ CSVファイルの読み込みに失敗しました: %v", err)
		log.Printf("📝 フォールバック: デフォルトユーザーを作成します")
		r.createDefaultUser()
		return
	}

	log.Printf("✅ CSVファイルから %d 人のユーザーを読み込みました", len(users))

	for _, user := range users {
		user.ID = r.nextID
		r.nextID++
		r.users[user.Username] = user
	}
}

func (r *memoryUserRepository) loadUsersFromCSV() ([]*models.User, error) {
	csvPath := filepath.Join("data", "users.csv")

	file, err := os.Open(csvPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	// ヘッダー行のみ、または空のファイルはデータなし
	if len(records) < 2 {
		return nil, fmt.Errorf("seed file has no data rows")
	}

	var users []*models.User

	// ヘッダーをスキップ
	for i, record := range records[1:] {
		if len(record) < 3 {
			log.Printf("⚠️ 行%d: データが不完全です: %v", i+2, record)
			continue
		}

		hashedPassword, err := utils.HashPassword(record[2])
		if err != nil {
			log.Printf("⚠️ 行%d: パスワードハッシュ化に失敗: %v", i+2, err)
			continue
		}

		users = append(users, &models.User{
			Username:     record[0],
			Email:        record[1],
			PasswordHash: hashedPassword,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		})
	}

	return users, nil
}

func (r *memoryUserRepository) createDefaultUser() {
	hashedPassword, err := utils.HashPassword("password")
	if err != nil {
		log.Printf("⚠️ デフォルトユーザーのパスワードハッシュ化に失敗: %v", err)
		return
	}

	r.users["demo"] = &models.User{
		ID:           r.nextID,
		Username:     "demo",
		Email:        "demo@example.com",
		PasswordHash: hashedPassword,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	r.nextID++
}

func (r *memoryUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	user, exists := r.users[username]
	if !exists {
		return nil, fmt.Errorf("user not found")
	}

	return user, nil
}

func (r *memoryUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}

	return nil, fmt.Errorf("user not found")
}

func (r *memoryUserRepository) Create(ctx context.Context, user *models.User) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.users[user.Username]; exists {
		return fmt.Errorf("user already exists")
	}

	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	r.users[user.Username] = user

	return nil
}
