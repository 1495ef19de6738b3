package repositories

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/codequest/back/internal/models"
)

type memoryChallengeRepository struct {
	challenges map[int64]*models.Challenge
	nextID     int64
	mutex      sync.RWMutex
}

func NewMemoryChallengeRepository() ChallengeRepository {
	return &memoryChallengeRepository{
		challenges: make(map[int64]*models.Challenge),
		nextID:     1,
		mutex:      sync.RWMutex{},
	}
}

func (r *memoryChallengeRepository) Create(ctx context.Context, challenge *models.Challenge) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	challenge.ID = r.nextID
	r.nextID++
	if challenge.CreatedAt.IsZero() {
		challenge.CreatedAt = time.Now()
	}
	if challenge.UpdatedAt.IsZero() {
		challenge.UpdatedAt = challenge.CreatedAt
	}
	r.challenges[challenge.ID] = challenge

	return nil
}

func (r *memoryChallengeRepository) GetApprovedByID(ctx context.Context, id int64) (*models.Challenge, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	challenge, exists := r.challenges[id]
	if !exists || !challenge.IsApproved {
		return nil, fmt.Errorf("challenge not found")
	}

	return challenge, nil
}

// matches はMySQL実装のLIKE検索（大文字小文字を区別しない部分一致）と同じ判定を行います
func (r *memoryChallengeRepository) matches(challenge *models.Challenge, difficulty, query string) bool {
	if !challenge.IsApproved {
		return false
	}
	if difficulty != "" && challenge.Difficulty != difficulty {
		return false
	}
	if query != "" {
		q := strings.ToLower(query)
		if !strings.Contains(strings.ToLower(challenge.Title), q) &&
			!strings.Contains(strings.ToLower(challenge.Description), q) &&
			!strings.Contains(strings.ToLower(challenge.CreatorName), q) {
			return false
		}
	}
	return true
}

func (r *memoryChallengeRepository) listFiltered(difficulty, query string) []*models.Challenge {
	var filtered []*models.Challenge
	for _, challenge := range r.challenges {
		if r.matches(challenge, difficulty, query) {
			filtered = append(filtered, challenge)
		}
	}

	// 作成日時の降順（新しい順）
	sort.Slice(filtered, func(i, j int) bool {
		if filtered[i].CreatedAt.Equal(filtered[j].CreatedAt) {
			return filtered[i].ID > filtered[j].ID
		}
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	return filtered
}

func (r *memoryChallengeRepository) ListApproved(ctx context.Context, difficulty, query string, limit, offset int) ([]*models.Challenge, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	filtered := r.listFiltered(difficulty, query)

	if offset >= len(filtered) {
		return nil, nil
	}

	end := offset + limit
	if end > len(filtered) {
		end = len(filtered)
	}

	return filtered[offset:end], nil
}

func (r *memoryChallengeRepository) CountApproved(ctx context.Context, difficulty, query string) (int, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.listFiltered(difficulty, query)), nil
}
