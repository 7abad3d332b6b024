// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"pressbox/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password assigned to every seeded user.
const DefaultPassword = "password123"

// Seeder populates the database with generated users, articles, and comments.
type Seeder struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes all seedable data. Comments go first so article and user
// rows are never referenced when they are deleted.
func (s *Seeder) ClearAll() error {
	for _, model := range []interface{}{
		&models.Comment{},
		&models.Article{},
		&models.User{},
	} {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return fmt.Errorf("clearing %T: %w", model, err)
		}
	}
	log.Println("cleared existing data")
	return nil
}

// SeedUsers creates n users sharing DefaultPassword.
func (s *Seeder) SeedUsers(n int) ([]*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		users = append(users, &models.User{
			Name:     gofakeit.Name(),
			Email:    fmt.Sprintf("%d.%s", i, gofakeit.Email()),
			Password: string(hash),
		})
	}
	if err := s.db.Create(&users).Error; err != nil {
		return nil, err
	}
	log.Printf("seeded %d users", len(users))
	return users, nil
}

// SeedArticles creates n articles with timestamps spread over the last 90 days.
func (s *Seeder) SeedArticles(n int) ([]*models.Article, error) {
	articles := make([]*models.Article, 0, n)
	for i := 0; i < n; i++ {
		articles = append(articles, &models.Article{
			Title:     gofakeit.Sentence(6),
			Body:      gofakeit.Paragraph(3, 5, 12, "\n\n"),
			CreatedAt: s.pastTimestamp(90),
		})
	}
	if err := s.db.Create(&articles).Error; err != nil {
		return nil, err
	}
	log.Printf("seeded %d articles", len(articles))
	return articles, nil
}

// SeedComments creates n comments spread across the given articles and users.
// Most are published; a share stays pending or rejected so moderation states
// show up in development data.
func (s *Seeder) SeedComments(users []*models.User, articles []*models.Article, n int) error {
	if len(users) == 0 || len(articles) == 0 {
		return fmt.Errorf("need users and articles before seeding comments")
	}

	comments := make([]*models.Comment, 0, n)
	for i := 0; i < n; i++ {
		comments = append(comments, &models.Comment{
			ArticleID: articles[s.rng.Intn(len(articles))].ID,
			UserID:    users[s.rng.Intn(len(users))].ID,
			Content:   gofakeit.Paragraph(1, 2, 8, " "),
			Status:    s.randomStatus(),
			CreatedAt: s.pastTimestamp(60),
		})
	}
	if err := s.db.Create(&comments).Error; err != nil {
		return err
	}
	log.Printf("seeded %d comments", len(comments))
	return nil
}

func (s *Seeder) randomStatus() models.CommentStatus {
	switch roll := s.rng.Intn(100); {
	case roll < 80:
		return models.CommentStatusPublished
	case roll < 90:
		return models.CommentStatusPending
	default:
		return models.CommentStatusRejected
	}
}

func (s *Seeder) pastTimestamp(maxDays int) time.Time {
	back := time.Duration(s.rng.Intn(maxDays*24*60)) * time.Minute
	return time.Now().Add(-back)
}
