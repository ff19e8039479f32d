package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/filmatch/filmatch-backend/internal/handlers"
	"github.com/filmatch/filmatch-backend/internal/logger"
	"github.com/filmatch/filmatch-backend/internal/repos"
	"github.com/filmatch/filmatch-backend/internal/server"
	"github.com/filmatch/filmatch-backend/internal/services"
	"github.com/filmatch/filmatch-backend/internal/types"
	"github.com/filmatch/filmatch-backend/internal/utils"
)

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(&types.Movie{}, &types.Rating{}, &types.User{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	log := logger.NewNop()
	modelPath := filepath.Join(t.TempDir(), "model.bin")

	movieRepo := repos.NewMovieRepo(db, log)
	ratingRepo := repos.NewRatingRepo(db, log)
	userRepo := repos.NewUserRepo(db, log)

	scoring := services.NewScoringService(log, modelPath)
	training := services.NewTrainingService(log, ratingRepo, movieRepo, modelPath)
	recSvc := services.NewRecommendationService(log, movieRepo, scoring, services.RecommenderConfig{})
	movieSvc := services.NewMovieService(log, movieRepo, ratingRepo)
	ratingSvc := services.NewRatingService(log, ratingRepo)
	authSvc := services.NewAuthService(log, userRepo)

	router := server.NewRouter(server.RouterConfig{
		Log:                   log,
		AuthHandler:           handlers.NewAuthHandler(log, authSvc),
		MovieHandler:          handlers.NewMovieHandler(log, movieSvc),
		RatingHandler:         handlers.NewRatingHandler(log, ratingSvc),
		RecommendationHandler: handlers.NewRecommendationHandler(log, training, scoring, recSvc),
	})
	return router, db
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	router, _ := newTestRouter(t)
	w := doJSON(t, router, http.MethodGet, "/healthcheck", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestLoginEndpoint(t *testing.T) {
	router, db := newTestRouter(t)

	hashed, err := utils.HashPassword("secret123")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if err := db.Create(&types.User{ID: 9, Name: "alice", Password: hashed}).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	w := doJSON(t, router, http.MethodPost, "/api/recommendations/login", map[string]string{
		"name": "alice", "password": "secret123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		UserID int `json:"userId"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.UserID != 9 {
		t.Fatalf("expected userId 9, got %d", resp.UserID)
	}

	w = doJSON(t, router, http.MethodPost, "/api/recommendations/login", map[string]string{
		"name": "alice", "password": "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRateEndpoint_RejectsZeroIDs(t *testing.T) {
	router, _ := newTestRouter(t)
	w := doJSON(t, router, http.MethodPost, "/api/recommendations/rate", map[string]any{
		"userId": 0, "movieId": 5, "rating": 4.0,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRateEndpoint_Saves(t *testing.T) {
	router, db := newTestRouter(t)
	if err := db.Create(&types.Movie{ID: 5, Title: "Movie"}).Error; err != nil {
		t.Fatalf("failed to seed movie: %v", err)
	}

	w := doJSON(t, router, http.MethodPost, "/api/recommendations/rate", map[string]any{
		"userId": 1, "movieId": 5, "rating": 4.0,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var count int64
	if err := db.Model(&types.Rating{}).Count(&count).Error; err != nil {
		t.Fatalf("failed to count ratings: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one rating row, got %d", count)
	}
}

func TestPredictEndpoint_ModelUnavailable(t *testing.T) {
	router, _ := newTestRouter(t)
	w := doJSON(t, router, http.MethodPost, "/api/recommendations/predict", map[string]any{
		"userId": "1", "year": 2000, "genre": "drama", "cast": "someone",
	})
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 before any training, got %d: %s", w.Code, w.Body.String())
	}
}

func TestTrainEndpoint_NoData(t *testing.T) {
	router, _ := newTestRouter(t)
	w := doJSON(t, router, http.MethodPost, "/api/recommendations/train", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Message != "no data to train" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

func TestTrainThenPredictAndRecommend(t *testing.T) {
	router, db := newTestRouter(t)

	year := 2000
	genre := "drama"
	cast := "someone great"
	for i := 1; i <= 3; i++ {
		y := year + i
		if err := db.Create(&types.Movie{ID: i, Title: "Movie", Year: &y, Genre: &genre, Cast: &cast}).Error; err != nil {
			t.Fatalf("failed to seed movie: %v", err)
		}
	}
	if err := db.Create(&types.Rating{UserID: 1, MovieID: 1, Value: 5}).Error; err != nil {
		t.Fatalf("failed to seed rating: %v", err)
	}
	if err := db.Create(&types.Rating{UserID: 1, MovieID: 2, Value: 2}).Error; err != nil {
		t.Fatalf("failed to seed rating: %v", err)
	}

	w := doJSON(t, router, http.MethodPost, "/api/recommendations/train", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("train failed: %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodPost, "/api/recommendations/predict", map[string]any{
		"userId": "1", "year": 2003, "genre": "drama", "cast": "someone",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("predict failed: %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/api/recommendations/recommend/1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("recommend failed: %d: %s", w.Code, w.Body.String())
	}
	var recs []struct {
		MovieID int     `json:"movieId"`
		Title   string  `json:"title"`
		Score   float32 `json:"predictedRating"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &recs); err != nil {
		t.Fatalf("failed to decode recommendations: %v", err)
	}
	if len(recs) > 5 {
		t.Fatalf("expected at most 5 recommendations, got %d", len(recs))
	}
	for _, r := range recs {
		if r.MovieID == 1 || r.MovieID == 2 {
			t.Fatalf("recommendation includes rated movie %d", r.MovieID)
		}
	}
}

func TestMoviesEndpoint(t *testing.T) {
	router, db := newTestRouter(t)
	if err := db.Create(&types.Movie{ID: 1, Title: "Bare"}).Error; err != nil {
		t.Fatalf("failed to seed movie: %v", err)
	}
	if err := db.Create(&types.Rating{UserID: 3, MovieID: 1, Value: 5}).Error; err != nil {
		t.Fatalf("failed to seed rating: %v", err)
	}

	w := doJSON(t, router, http.MethodGet, "/api/recommendations/movies/3", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var rows []struct {
		ID       int     `json:"id"`
		MyRating float32 `json:"myRating"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &rows); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(rows) != 1 || rows[0].MyRating != 5 {
		t.Fatalf("unexpected rows: %v", rows)
	}
}
