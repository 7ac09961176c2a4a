package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"moviecatalog/internal/models"
)

var ErrNotFound = errors.New("record not found")

func (r *GormRepo) CreateReview(ctx context.Context, review *models.Review) error {
	return r.DB.WithContext(ctx).Create(review).Error
}

func (r *GormRepo) ReviewByID(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	if err := r.DB.WithContext(ctx).First(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *GormRepo) ReviewsByMovie(ctx context.Context, movieID string) ([]models.Review, error) {
	var reviews []models.Review
	err := r.DB.WithContext(ctx).Where("movie_id = ?", movieID).Find(&reviews).Error
	return reviews, err
}

func (r *GormRepo) ReviewsByUser(ctx context.Context, userID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Find(&reviews).Error
	return reviews, err
}

func (r *GormRepo) UpdateReview(ctx context.Context, id uint, content string) error {
	res := r.DB.WithContext(ctx).Model(&models.Review{}).
		Where("id = ?", id).
		Update("content", content)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) DeleteReview(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Review{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// RateMovie upserts the user's score for a movie.
func (r *GormRepo) RateMovie(ctx context.Context, userID uint, movieID string, score uint) (*models.Rating, error) {
	var rating models.Rating
	tx := r.DB.WithContext(ctx).Where("user_id = ? AND movie_id = ?", userID, movieID).First(&rating)
	if tx.Error == nil {
		rating.Score = score
		if err := r.DB.WithContext(ctx).Save(&rating).Error; err != nil {
			return nil, err
		}
		return &rating, nil
	}
	if !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		return nil, tx.Error
	}
	rating = models.Rating{UserID: userID, MovieID: movieID, Score: score}
	if err := r.DB.WithContext(ctx).Create(&rating).Error; err != nil {
		return nil, err
	}
	return &rating, nil
}

type MovieRating struct {
	MovieID string  `json:"movie_id"`
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

func (r *GormRepo) MovieRating(ctx context.Context, movieID string) (*MovieRating, error) {
	out := MovieRating{MovieID: movieID}
	err := r.DB.WithContext(ctx).Model(&models.Rating{}).
		Where("movie_id = ?", movieID).
		Select("COALESCE(AVG(score), 0) AS average, COUNT(*) AS count").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *GormRepo) RatingsByUser(ctx context.Context, userID uint) ([]models.Rating, error) {
	var ratings []models.Rating
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Find(&ratings).Error
	return ratings, err
}

// AddBookmark upserts the bookmark category for a user+movie pair.
func (r *GormRepo) AddBookmark(ctx context.Context, userID uint, movieID, category string) (*models.Bookmark, error) {
	var bm models.Bookmark
	tx := r.DB.WithContext(ctx).Where("user_id = ? AND movie_id = ?", userID, movieID).First(&bm)
	if tx.Error == nil {
		bm.Category = category
		if err := r.DB.WithContext(ctx).Save(&bm).Error; err != nil {
			return nil, err
		}
		return &bm, nil
	}
	if !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		return nil, tx.Error
	}
	bm = models.Bookmark{UserID: userID, MovieID: movieID, Category: category}
	if err := r.DB.WithContext(ctx).Create(&bm).Error; err != nil {
		return nil, err
	}
	return &bm, nil
}

func (r *GormRepo) RemoveBookmark(ctx context.Context, userID uint, movieID string) error {
	res := r.DB.WithContext(ctx).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Delete(&models.Bookmark{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) BookmarksByUser(ctx context.Context, userID uint, category string) ([]models.Bookmark, error) {
	q := r.DB.WithContext(ctx).Where("user_id = ?", userID)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var bms []models.Bookmark
	err := q.Find(&bms).Error
	return bms, err
}

// AddWatched is idempotent: marking a movie watched twice is not an error.
func (r *GormRepo) AddWatched(ctx context.Context, userID uint, movieID string) (*models.Watched, error) {
	var w models.Watched
	tx := r.DB.WithContext(ctx).Where("user_id = ? AND movie_id = ?", userID, movieID).First(&w)
	if tx.Error == nil {
		return &w, nil
	}
	if !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		return nil, tx.Error
	}
	w = models.Watched{UserID: userID, MovieID: movieID}
	if err := r.DB.WithContext(ctx).Create(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *GormRepo) RemoveWatched(ctx context.Context, userID uint, movieID string) error {
	res := r.DB.WithContext(ctx).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Delete(&models.Watched{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) WatchedByUser(ctx context.Context, userID uint) ([]models.Watched, error) {
	var list []models.Watched
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Find(&list).Error
	return list, err
}

func (r *GormRepo) MovieViews(ctx context.Context, movieID string) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Watched{}).
		Where("movie_id = ?", movieID).
		Count(&count).Error
	return count, err
}
