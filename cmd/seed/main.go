// Command seed populates the database with demo users, articles, and
// comments.
package main

import (
	"flag"
	"log"

	"pressbox/internal/config"
	"pressbox/internal/database"
	"pressbox/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of users to create")
	numArticles := flag.Int("articles", 40, "Number of articles to create")
	numComments := flag.Int("comments", 400, "Number of comments to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)
	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	users, err := s.SeedUsers(*numUsers)
	if err != nil {
		log.Fatalf("User seeding failed: %v", err)
	}
	articles, err := s.SeedArticles(*numArticles)
	if err != nil {
		log.Fatalf("Article seeding failed: %v", err)
	}
	if err := s.SeedComments(users, articles, *numComments); err != nil {
		log.Fatalf("Comment seeding failed: %v", err)
	}

	log.Printf("Done. All seeded users have the password %q.", seed.DefaultPassword)
}
