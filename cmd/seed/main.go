package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/filmatch/filmatch-backend/internal/db"
	"github.com/filmatch/filmatch-backend/internal/logger"
	"github.com/filmatch/filmatch-backend/internal/repos"
	"github.com/filmatch/filmatch-backend/internal/types"
	"github.com/filmatch/filmatch-backend/internal/utils"
)

type seedFile struct {
	Movies []seedMovie `json:"movies"`
	Users  []seedUser  `json:"users"`
}

type seedMovie struct {
	ID    int     `json:"id"`
	Title string  `json:"title"`
	Year  *int    `json:"year"`
	Genre *string `json:"genre"`
	Cast  *string `json:"cast"`
	Photo *string `json:"photo"`
}

type seedUser struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Seeds the movie catalog and user accounts from a JSON fixture. Movies are
// upserted by id, users are skipped when the name is already taken, and
// passwords are bcrypt-hashed before they touch the database.
func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Printf("Failed to load .env: %v\n", err)
	}
	log, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	seedPath := utils.GetEnv("SEED_FILE", "seed/data.json", log)
	raw, err := os.ReadFile(seedPath)
	if err != nil {
		log.Error("Failed to read seed file", "path", seedPath, "error", err)
		os.Exit(1)
	}
	var fixture seedFile
	if err := json.Unmarshal(raw, &fixture); err != nil {
		log.Error("Failed to parse seed file", "path", seedPath, "error", err)
		os.Exit(1)
	}

	dbService, err := db.New(log)
	if err != nil {
		log.Error("Database init failed", "error", err)
		os.Exit(1)
	}
	if err := dbService.AutoMigrateAll(); err != nil {
		log.Error("Database auto migration failed", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	movieRepo := repos.NewMovieRepo(dbService.DB(), log)
	userRepo := repos.NewUserRepo(dbService.DB(), log)

	movies := make([]*types.Movie, 0, len(fixture.Movies))
	for _, m := range fixture.Movies {
		movies = append(movies, &types.Movie{
			ID:    m.ID,
			Title: m.Title,
			Year:  m.Year,
			Genre: m.Genre,
			Cast:  m.Cast,
			Photo: m.Photo,
		})
	}
	if err := movieRepo.Upsert(ctx, nil, movies); err != nil {
		log.Error("Failed to seed movies", "error", err)
		os.Exit(1)
	}
	log.Info("Movies seeded", "count", len(movies))

	created := 0
	for _, u := range fixture.Users {
		exists, err := userRepo.NameExists(ctx, nil, u.Name)
		if err != nil {
			log.Error("Failed to check user name", "name", u.Name, "error", err)
			os.Exit(1)
		}
		if exists {
			continue
		}
		hashed, err := utils.HashPassword(u.Password)
		if err != nil {
			log.Error("Failed to hash password", "name", u.Name, "error", err)
			os.Exit(1)
		}
		if _, err := userRepo.Create(ctx, nil, []*types.User{{Name: u.Name, Password: hashed}}); err != nil {
			log.Error("Failed to seed user", "name", u.Name, "error", err)
			os.Exit(1)
		}
		created++
	}
	log.Info("Users seeded", "created", created, "skipped", len(fixture.Users)-created)
}
