package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"taskvault/internal/config"
	"taskvault/internal/db"
	"taskvault/internal/model"
	"taskvault/internal/repository"
)

const defaultSeedFile = "seed/demo.json"

// SeedTaskData is a task entry in the seed file.
type SeedTaskData struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Priority    string `json:"priority"`
	Completed   bool   `json:"completed"`
}

// SeedUserData is a user entry in the seed file, with its tasks.
type SeedUserData struct {
	Username string         `json:"username"`
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Tasks    []SeedTaskData `json:"tasks"`
}

type seedFile struct {
	Users []SeedUserData `json:"users"`
}

func main() {
	log.Println("Starting seed script...")

	path := os.Getenv("SEED_FILE")
	if path == "" {
		path = defaultSeedFile
	}

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Task{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	log.Printf("Loading seed data from: %s", path)
	data, err := loadSeedFile(path)
	if err != nil {
		log.Fatalf("Failed to load seed data: %v", err)
	}
	log.Printf("Loaded %d users from seed file", len(data.Users))

	userRepo := repository.NewUserRepository(gormDB)
	taskRepo := repository.NewTaskRepository(gormDB)
	ctx := context.Background()

	usersCreated, tasksCreated, err := seed(ctx, userRepo, taskRepo, data.Users)
	if err != nil {
		log.Fatalf("Failed to seed: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - New users created: %d", usersCreated)
	log.Printf("  - New tasks created: %d", tasksCreated)
}

// parseSeedDate accepts RFC 3339 timestamps or plain calendar dates.
func parseSeedDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// loadSeedFile reads and parses the seed JSON file.
func loadSeedFile(path string) (*seedFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var data seedFile
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &data, nil
}

// seed creates missing users and their tasks. Existing users (matched by
// email) are reused; tasks already present for a user (matched by title) are
// skipped so the seeder is safe to re-run.
func seed(ctx context.Context, userRepo repository.UserRepository, taskRepo repository.TaskRepository, users []SeedUserData) (usersCreated, tasksCreated int, err error) {
	for _, item := range users {
		user, err := userRepo.FindByEmail(ctx, item.Email)
		if err != nil && err != gorm.ErrRecordNotFound {
			return usersCreated, tasksCreated, fmt.Errorf("check user %s: %w", item.Email, err)
		}

		if user == nil {
			hash, err := bcrypt.GenerateFromPassword([]byte(item.Password), 10)
			if err != nil {
				return usersCreated, tasksCreated, fmt.Errorf("hash password for %s: %w", item.Email, err)
			}
			user = &model.User{
				Username:     item.Username,
				Email:        item.Email,
				PasswordHash: string(hash),
			}
			if err := userRepo.Create(ctx, user); err != nil {
				return usersCreated, tasksCreated, fmt.Errorf("create user %s: %w", item.Email, err)
			}
			usersCreated++
		}

		existing, err := taskRepo.ListByOwner(ctx, user.ID, repository.TaskFilter{})
		if err != nil {
			return usersCreated, tasksCreated, fmt.Errorf("list tasks for %s: %w", item.Email, err)
		}
		have := make(map[string]bool, len(existing))
		for _, t := range existing {
			have[t.Title] = true
		}

		for _, taskItem := range item.Tasks {
			if have[taskItem.Title] {
				continue
			}

			dueDate, err := parseSeedDate(taskItem.DueDate)
			if err != nil {
				log.Printf("Skipping task %q with invalid due date: %s", taskItem.Title, taskItem.DueDate)
				continue
			}

			priority := model.Priority(taskItem.Priority)
			if priority != "" && !priority.IsValid() {
				log.Printf("Skipping task %q with invalid priority: %s", taskItem.Title, taskItem.Priority)
				continue
			}

			task := &model.Task{
				Title:       taskItem.Title,
				Description: taskItem.Description,
				DueDate:     dueDate,
				Priority:    priority,
				Completed:   taskItem.Completed,
				UserID:      user.ID,
			}
			if err := taskRepo.Create(ctx, task); err != nil {
				return usersCreated, tasksCreated, fmt.Errorf("create task %q: %w", taskItem.Title, err)
			}
			tasksCreated++
		}
	}

	return usersCreated, tasksCreated, nil
}
