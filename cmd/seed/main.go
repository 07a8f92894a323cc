// Command main runs the database seeder for Teampot.
package main

import (
	"flag"
	"log"

	"teampot/internal/config"
	"teampot/internal/database"
	"teampot/internal/seed"
)

func main() {
	// Parse command line flags
	numUsers := flag.Int("users", 20, "Number of users to create")
	numSpaces := flag.Int("spaces", 3, "Number of spaces to create")
	teams := flag.Int("teams", 3, "Teams per space")
	posts := flag.Int("posts", 25, "Posts per team")
	days := flag.Int("days", 90, "Spread post history over this many days")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d users, %d spaces x %d teams, %d posts/team, clean=%v\n",
		*numUsers, *numSpaces, *teams, *posts, *shouldClean)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Seed(db, seed.Options{
		NumUsers:     *numUsers,
		NumSpaces:    *numSpaces,
		TeamsPerSpc:  *teams,
		PostsPerTeam: *posts,
		MaxDays:      *days,
		ShouldClean:  *shouldClean,
	}); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("✨ All done! Your database is now populated with test data.")
	log.Println("📧 All test users have the password: password123")
}
