package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"launchit/internal/auth"
	"launchit/internal/config"
	"launchit/internal/domain/models"
	"launchit/internal/repository"
	serviceAuth "launchit/internal/service/auth"
	"launchit/internal/service/comments"

	"github.com/joho/godotenv"
)

// DemoProjectID is the launch the demo thread is attached to
const DemoProjectID = "7c9e6679-7425-40de-944b-e07fc1f90ae7"

// demoUser is a seeded account. ID is used when users are not created
// through the Admin API.
type demoUser struct {
	ID          string
	Email       string
	DisplayName string
	Role        models.Role
}

var demoUsers = []demoUser{
	{ID: "5f0c2a9e-1b7d-4f7a-9a51-0d1f6a2b3c01", Email: "founder@launchit.dev", DisplayName: "Ada Founder", Role: models.RoleUser},
	{ID: "5f0c2a9e-1b7d-4f7a-9a51-0d1f6a2b3c02", Email: "maker@launchit.dev", DisplayName: "Bob Maker", Role: models.RoleUser},
	{ID: "5f0c2a9e-1b7d-4f7a-9a51-0d1f6a2b3c03", Email: "admin@launchit.dev", DisplayName: "Cleo Admin", Role: models.RoleAdmin},
}

const demoPassword = "launchit-demo-password"

func main() {
	// Parse command-line flags
	createUsers := flag.Bool("create-users", false, "Create demo users through the Supabase Admin API (recreates existing ones)")
	schemaOnly := flag.Bool("schema-only", false, "Only apply migrations, don't seed data")
	projectID := flag.String("project", DemoProjectID, "Project to seed the demo thread into")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// SAFETY: Demo accounts never belong in production
	if cfg.Environment == "prod" && *createUsers {
		log.Fatalf("🚫 BLOCKED: Cannot create demo users in production environment")
	}

	logger := config.NewLogger(cfg, os.Stdout)

	log.Printf("🌱 Seeding %s store (environment: %s, prefix: %s)", cfg.StoreDriver, cfg.Environment, cfg.TablePrefix)

	ctx := context.Background()

	// Opening the store applies migrations
	stores, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer stores.Close()
	log.Println("✅ Schema ready")

	if *schemaOnly {
		return
	}

	users := demoUsers
	if *createUsers {
		if cfg.SupabaseURL == "" || cfg.SupabaseKey == "" {
			log.Fatalf("SUPABASE_URL and SUPABASE_KEY are required with --create-users")
		}
		users, err = createAuthUsers(ctx, auth.NewAdminClient(cfg.SupabaseURL, cfg.SupabaseKey, logger))
		if err != nil {
			log.Fatalf("Failed to create demo users: %v", err)
		}
	}

	for _, u := range users {
		profile := &models.Profile{
			ID:          u.ID,
			DisplayName: u.DisplayName,
			Role:        u.Role,
			CreatedAt:   time.Now(),
		}
		if err := stores.Profiles.Upsert(ctx, profile); err != nil {
			log.Fatalf("Failed to upsert profile %s: %v", u.Email, err)
		}
		log.Printf("👤 Profile %s (%s, %s)", u.DisplayName, u.ID, u.Role)
	}

	existing, err := stores.Comments.CountByProject(ctx, *projectID)
	if err != nil {
		log.Fatalf("Failed to count comments: %v", err)
	}
	if existing > 0 {
		log.Printf("ℹ️  Project %s already has %d comments, skipping thread", *projectID, existing)
		return
	}

	if err := seedThread(ctx, stores, *projectID, users, logger); err != nil {
		log.Fatalf("Failed to seed thread: %v", err)
	}

	log.Println("🎉 Seeding complete!")
}

// createAuthUsers recreates the demo accounts and returns them with their auth IDs
func createAuthUsers(ctx context.Context, client *auth.AdminClient) ([]demoUser, error) {
	created := make([]demoUser, 0, len(demoUsers))
	for _, u := range demoUsers {
		if err := client.DeleteUserByEmail(ctx, u.Email); err != nil {
			return nil, err
		}
		id, err := client.CreateUser(ctx, u.Email, demoPassword, u.DisplayName)
		if err != nil {
			return nil, err
		}
		u.ID = id
		created = append(created, u)
		log.Printf("✅ Created auth user %s (%s)", u.Email, id)
	}
	return created, nil
}

// seedThread writes a small discussion with nested replies, then removes one
// comment so the thread shows a tombstone
func seedThread(ctx context.Context, stores *repository.Stores, projectID string, users []demoUser, logger *slog.Logger) error {
	founder, maker, admin := users[0], users[1], users[2]
	start := time.Now().Add(-72 * time.Hour)

	post := func(author demoUser, parent *models.Comment, content string, after time.Duration) (*models.Comment, error) {
		c := &models.Comment{
			ProjectID: projectID,
			AuthorID:  author.ID,
			Content:   content,
			CreatedAt: start.Add(after),
		}
		if parent != nil {
			c.ParentID = &parent.ID
		}
		if err := stores.Comments.Create(ctx, c); err != nil {
			return nil, err
		}
		return c, nil
	}

	intro, err := post(founder, nil, "Thanks for checking out our launch! Feedback welcome.", 0)
	if err != nil {
		return err
	}
	question, err := post(maker, intro, "Does it support self-hosting?", 2*time.Hour)
	if err != nil {
		return err
	}
	if _, err := post(founder, question, "Not yet, it is on the roadmap for Q3.", 3*time.Hour); err != nil {
		return err
	}
	spam, err := post(maker, nil, "Check out my unrelated product!!!", 30*time.Hour)
	if err != nil {
		return err
	}
	if _, err := post(founder, spam, "Please keep the thread on topic.", 31*time.Hour); err != nil {
		return err
	}
	if _, err := post(admin, nil, "Featured in this week's newsletter.", 60*time.Hour); err != nil {
		return err
	}

	// The admin removes the spam; the founder's reply keeps it as a tombstone
	service := comments.NewCommentService(stores.Comments, stores.Tx, serviceAuth.NewRoleBasedAuthorizer(),
		comments.NewTreeBuilder(comments.OrphanDrop), nil, logger)
	result, err := service.DeleteComment(ctx, models.Actor{ID: admin.ID, Role: models.RoleAdmin}, spam.ID)
	if err != nil {
		return err
	}

	log.Printf("💬 Seeded thread for project %s (spam comment %s)", projectID, result.Outcome)
	return nil
}
