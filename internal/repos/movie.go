package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/filmatch/filmatch-backend/internal/logger"
	"github.com/filmatch/filmatch-backend/internal/types"
)

type MovieRepo interface {
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Movie, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, movieIDs []int) ([]*types.Movie, error)
	ListUnrated(ctx context.Context, tx *gorm.DB, userID, limit int) ([]*types.Movie, error)
	Upsert(ctx context.Context, tx *gorm.DB, movies []*types.Movie) error
}

type movieRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMovieRepo(db *gorm.DB, baseLog *logger.Logger) MovieRepo {
	return &movieRepo{db: db, log: baseLog.With("repo", "MovieRepo")}
}

func (mr *movieRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Movie, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	var results []*types.Movie
	if err := transaction.WithContext(ctx).
		Order("id").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (mr *movieRepo) GetByIDs(ctx context.Context, tx *gorm.DB, movieIDs []int) ([]*types.Movie, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	var results []*types.Movie
	if len(movieIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", movieIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ListUnrated returns up to limit movies the user has not rated yet, ordered
// by movie id so the candidate set is deterministic.
func (mr *movieRepo) ListUnrated(ctx context.Context, tx *gorm.DB, userID, limit int) ([]*types.Movie, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	rated := transaction.Model(&types.Rating{}).
		Select("movie_id").
		Where("user_id = ?", userID)

	var results []*types.Movie
	if err := transaction.WithContext(ctx).
		Where("id NOT IN (?)", rated).
		Order("id").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (mr *movieRepo) Upsert(ctx context.Context, tx *gorm.DB, movies []*types.Movie) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	if len(movies) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&movies).Error
}
