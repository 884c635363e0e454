package main

import (
	"flag"
	"log"

	"gameinsight/database"
	"gameinsight/internal/config"
	"gameinsight/internal/http-api/repository"
	"gameinsight/internal/http-api/service"
)

// create-admin provisions a user account that can trigger ingestion runs
// through the API.
func main() {
	email := flag.String("email", "", "account email")
	password := flag.String("password", "", "account password")
	role := flag.String("role", "admin", "account role")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("[Fatal] -email and -password are required")
	}
	if len(*password) < 8 {
		log.Fatal("[Fatal] password must be at least 8 characters")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("[Fatal] could not load config: %v", err)
	}

	db, err := database.OpenGorm(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[Fatal] failed to connect to database: %v", err)
	}

	authSvc := service.NewAuthService(repository.NewUserRepository(db), cfg)
	user, err := authSvc.Register(*email, *password, *role)
	if err != nil {
		log.Fatalf("[Fatal] could not create user: %v", err)
	}

	log.Printf("[CreateAdmin] created user %s (%s) with role %s", user.Email, user.ID, user.Role)
}
