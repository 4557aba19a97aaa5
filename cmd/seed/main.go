package main

import (
	"context"
	"fmt"
	"log"

	"github.com/johnquangdev/coreagenda/internal/adapter/repository"
	"github.com/johnquangdev/coreagenda/internal/domain/entities"
	"github.com/johnquangdev/coreagenda/internal/infrastructure/database"
	"github.com/johnquangdev/coreagenda/pkg/config"
	pkgjwt "github.com/johnquangdev/coreagenda/pkg/jwt"
	pkglogger "github.com/johnquangdev/coreagenda/pkg/logger"
)

const testDomain = "@test.local"

func main() {
	log.Println("🚀 Starting test users creation...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatalf("Refusing to seed test users in production")
	}

	logger, err := pkglogger.New(cfg.Server.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	db, err := database.NewPostgresDB(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	users := repository.NewUserRepository(db)
	jwtManager := pkgjwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL)

	// One user per role
	testUsers := []struct {
		Email string
		Name  string
		Role  entities.UserRole
	}{
		{Email: "alice" + testDomain, Name: "Alice", Role: entities.RoleAdmin},
		{Email: "bob" + testDomain, Name: "Bob", Role: entities.RoleChair},
		{Email: "charlie" + testDomain, Name: "Charlie", Role: entities.RoleSecretary},
		{Email: "diana" + testDomain, Name: "Diana", Role: entities.RoleMember},
	}

	log.Println("🗑️  Cleaning up existing test users...")
	removed, err := users.DeleteByEmailSuffix(ctx, testDomain)
	if err != nil {
		log.Fatalf("Failed to remove test users: %v", err)
	}
	log.Printf("Removed %d user(s)", removed)

	for i, tu := range testUsers {
		user := entities.NewUser(tu.Email, tu.Name, tu.Role)
		if err := users.Create(ctx, user); err != nil {
			log.Printf("❌ Failed to create user %s: %v", tu.Email, err)
			continue
		}

		token, err := jwtManager.IssueFor(pkgjwt.Identity{
			UserID: user.ID,
			Email:  user.Email,
			Role:   string(user.Role),
		}, cfg.JWT.DevTTL)
		if err != nil {
			log.Printf("❌ Failed to generate access token for %s: %v", tu.Email, err)
			continue
		}

		fmt.Printf("═══════════════════════════════════════════════════════════════\n")
		fmt.Printf("🟢 User %d: %s\n", i+1, tu.Name)
		fmt.Printf("Email:        %s\n", user.Email)
		fmt.Printf("User ID:      %s\n", user.ID)
		fmt.Printf("Role:         %s\n", user.Role)
		fmt.Printf("\n🔐 Access Token (expires in %v):\n", cfg.JWT.DevTTL)
		fmt.Printf("%s\n\n", token)
	}

	log.Println("✅ All test users created successfully!")
	log.Println("Set header: Authorization: Bearer <access_token>")
}
