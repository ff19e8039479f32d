package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/filmatch/filmatch-backend/internal/logger"
	"github.com/filmatch/filmatch-backend/internal/types"
)

type RatingRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, rating *types.Rating) error
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Rating, error)
	ForUser(ctx context.Context, tx *gorm.DB, userID int) ([]*types.Rating, error)
}

type ratingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRatingRepo(db *gorm.DB, baseLog *logger.Logger) RatingRepo {
	return &ratingRepo{db: db, log: baseLog.With("repo", "RatingRepo")}
}

// Upsert inserts the rating, or overwrites the stored value when the
// (user_id, movie_id) pair already exists.
func (rr *ratingRepo) Upsert(ctx context.Context, tx *gorm.DB, rating *types.Rating) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "movie_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating"}),
		}).
		Create(rating).Error
}

func (rr *ratingRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Rating, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*types.Rating
	if err := transaction.WithContext(ctx).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *ratingRepo) ForUser(ctx context.Context, tx *gorm.DB, userID int) ([]*types.Rating, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*types.Rating
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
