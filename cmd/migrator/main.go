// Command migrator applies the credential store migrations and bootstraps
// accounts.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/ntquang22298/study-chain/internal/config"
	"github.com/ntquang22298/study-chain/internal/identity"
	"github.com/ntquang22298/study-chain/internal/users"
	"github.com/ntquang22298/study-chain/migrations"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the configuration file")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}
	command := args[0]

	cfg, err := config.Read(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to reach database: %v", err)
	}

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("failed to select dialect: %v", err)
	}

	switch command {
	case "up":
		if err := goose.Up(db, "."); err != nil {
			log.Fatalf("failed to apply migrations: %v", err)
		}
		fmt.Println("migrations applied")
	case "down":
		if err := goose.Down(db, "."); err != nil {
			log.Fatalf("failed to roll back migration: %v", err)
		}
		fmt.Println("last migration rolled back")
	case "status":
		if err := goose.Status(db, "."); err != nil {
			log.Fatalf("failed to read migration status: %v", err)
		}
	case "create-user":
		if len(args) != 4 {
			log.Fatalf("usage: migrator create-user <username> <password> <role>")
		}
		role, err := identity.ParseRole(args[3])
		if err != nil {
			log.Fatalf("invalid role: %v", err)
		}
		svc := users.NewService(users.NewRepository(db), users.NewBcryptHasher())
		a, err := svc.Register(context.Background(), args[1], args[2], role)
		if err != nil {
			log.Fatalf("failed to create user: %v", err)
		}
		fmt.Printf("created %s\n", a.Identity())
	default:
		fmt.Printf("unknown command: %s\n", command)
		flag.Usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("Usage: migrator [-config path] <command>")
	fmt.Println("Commands:")
	fmt.Println("  up                                      - apply all pending migrations")
	fmt.Println("  down                                    - roll back the last migration")
	fmt.Println("  status                                  - print migration status")
	fmt.Println("  create-user <username> <password> <role> - create an account")
	fmt.Println("")
	fmt.Println("Roles: ADMIN_ACADEMY, TEACHER, ADMIN_STUDENT, STUDENT or their codes 1-4")
	fmt.Println("")
	fmt.Println("Examples:")
	fmt.Println("  migrator up")
	fmt.Println("  migrator -config configs/config.yaml create-user gv01 secret1 TEACHER")
}
