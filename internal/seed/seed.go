package seed

import (
	"fmt"
	"log"

	"teampot/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers     int
	NumSpaces    int
	TeamsPerSpc  int
	PostsPerTeam int
	// MaxDays spreads post timestamps over this many days of history.
	MaxDays     int
	ShouldClean bool
}

// Seed populates the database with a believable demo dataset: users,
// spaces with teams, memberships across all role tiers, pot activity,
// open invitations, and one subscribed team per space.
func Seed(db *gorm.DB, opts Options) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 20
	}
	if opts.NumSpaces <= 0 {
		opts.NumSpaces = 3
	}
	if opts.TeamsPerSpc <= 0 {
		opts.TeamsPerSpc = 3
	}
	if opts.PostsPerTeam <= 0 {
		opts.PostsPerTeam = 25
	}

	log.Printf("🌱 Seeding %d users across %d spaces...", opts.NumUsers, opts.NumSpaces)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	f := NewFactory(db, opts)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return fmt.Errorf("failed to create users: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("✓ %d users created", len(users))

	for s := 0; s < opts.NumSpaces; s++ {
		if err := seedSpace(f, users, opts); err != nil {
			return err
		}
	}

	log.Println("✅ Database seeding completed successfully!")
	return nil
}

// seedSpace builds one space with teams, a membership mesh, posts, an open
// invitation, and a subscription owned by the space admin covering the
// first team.
func seedSpace(f *Factory, users []*models.User, opts Options) error {
	space, err := f.CreateSpace()
	if err != nil {
		return err
	}

	// First user drawn becomes the space admin, the rest are shuffled into
	// members with an occasional guest.
	order := f.rng.Perm(len(users))
	admin := users[order[0]]
	if _, err := f.CreateRole(space, admin, models.RoleAdmin); err != nil {
		return err
	}

	memberCount := len(users)/2 + 1
	if memberCount > len(order)-1 {
		memberCount = len(order) - 1
	}
	spaceMembers := []*models.User{admin}
	for i := 1; i <= memberCount; i++ {
		role := models.RoleMember
		if f.rng.Intn(6) == 0 {
			role = models.RoleGuest
		}
		u := users[order[i]]
		if _, err := f.CreateRole(space, u, role); err != nil {
			return err
		}
		if role != models.RoleGuest {
			spaceMembers = append(spaceMembers, u)
		}
	}

	teams := make([]*models.Scope, 0, opts.TeamsPerSpc)
	for t := 0; t < opts.TeamsPerSpc; t++ {
		team, err := f.CreateTeam(space)
		if err != nil {
			return err
		}
		teams = append(teams, team)

		// A subset of space members joins each team directly. The space
		// admin inherits team admin through the parent, so no explicit
		// team role is needed for them.
		joining := spaceMembers[1:]
		for _, u := range joining {
			if f.rng.Intn(3) == 0 {
				continue
			}
			role := models.RoleMember
			if f.rng.Intn(8) == 0 {
				role = models.RoleAdmin
			}
			if _, err := f.CreateRole(team, u, role); err != nil {
				return err
			}
		}

		posts := make([]*models.Post, 0, opts.PostsPerTeam)
		for p := 0; p < opts.PostsPerTeam; p++ {
			author := spaceMembers[f.rng.Intn(len(spaceMembers))]
			recipient := spaceMembers[f.rng.Intn(len(spaceMembers))]
			postType := models.PostTypeFine
			switch f.rng.Intn(5) {
			case 0, 1:
				postType = models.PostTypeWin
			case 2:
				postType = models.PostTypePayment
			}
			posts = append(posts, f.BuildPost(team, author, recipient, postType))
		}
		if err := f.CreatePostsBatch(posts); err != nil {
			return fmt.Errorf("failed to create posts: %w", err)
		}
	}

	if _, err := f.CreateInvitation(space, admin, models.RoleMember); err != nil {
		return err
	}

	if len(teams) > 0 {
		if _, err := f.CreateActiveSubscription(admin, teams[0]); err != nil {
			return err
		}
	}

	log.Printf("✓ space %q seeded with %d teams", space.Slug, len(teams))
	return nil
}

// clearData wipes seedable tables in dependency order.
func clearData(db *gorm.DB) error {
	tables := []string{
		"subscription_scopes",
		"subscriptions",
		"invitations",
		"posts",
		"scope_post_permissions",
		"scope_roles",
		"scopes",
		"users",
	}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}
