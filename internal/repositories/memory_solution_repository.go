package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/codequest/back/internal/models"
)

type memorySolutionRepository struct {
	solutions []*models.ChallengeSolution
	nextID    int64
	mutex     sync.RWMutex
}

func NewMemorySolutionRepository() SolutionRepository {
	return &memorySolutionRepository{
		nextID: 1,
		mutex:  sync.RWMutex{},
	}
}

func (r *memorySolutionRepository) Create(ctx context.Context, solution *models.ChallengeSolution) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	solution.ID = r.nextID
	r.nextID++
	if solution.SubmittedAt.IsZero() {
		solution.SubmittedAt = time.Now()
	}
	r.solutions = append(r.solutions, solution)

	return nil
}

func (r *memorySolutionRepository) GetLatestByChallengeAndUser(ctx context.Context, challengeID, userID int64) (*models.ChallengeSolution, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var latest *models.ChallengeSolution
	for _, solution := range r.solutions {
		if solution.ChallengeID != challengeID || solution.UserID != userID {
			continue
		}
		if latest == nil || solution.SubmittedAt.After(latest.SubmittedAt) ||
			(solution.SubmittedAt.Equal(latest.SubmittedAt) && solution.ID > latest.ID) {
			latest = solution
		}
	}

	// 未提出は正常系
	return latest, nil
}

func (r *memorySolutionRepository) ListByUserAndChallengeIDs(ctx context.Context, userID int64, challengeIDs []int64) ([]*models.ChallengeSolution, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	idSet := make(map[int64]bool, len(challengeIDs))
	for _, id := range challengeIDs {
		idSet[id] = true
	}

	var matched []*models.ChallengeSolution
	for _, solution := range r.solutions {
		if solution.UserID == userID && idSet[solution.ChallengeID] {
			matched = append(matched, solution)
		}
	}

	// 提出日時の降順（新しい順）
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].SubmittedAt.Equal(matched[j].SubmittedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].SubmittedAt.After(matched[j].SubmittedAt)
	})

	return matched, nil
}
