// Command devtoken mints a session token for local testing. With -register it
// also creates or refreshes the user in the directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go-convo/internal/config"
	"go-convo/internal/infrastructure/database"
	"go-convo/internal/infrastructure/logger"
	"go-convo/internal/infrastructure/session"
	directory "go-convo/internal/pkg/directory/application/domain"
	dirRepo "go-convo/internal/pkg/directory/persistence/repository/adapter"
)

func main() {
	username := flag.String("user", "", "username to issue the token for")
	register := flag.Bool("register", false, "upsert the user into the directory first")
	displayName := flag.String("name", "", "display name used with -register (defaults to the username)")
	avatar := flag.String("avatar", "", "avatar URL used with -register")
	flag.Parse()

	if *username == "" {
		fmt.Fprintln(os.Stderr, "usage: devtoken -user <username> [-register -name <display name> -avatar <url>]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.New(cfg.Env, cfg.LogLevel)

	if *register {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		pool, err := database.Connect(ctx, cfg.DatabaseURL, database.WithMaxConns(2))
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()

		name := *displayName
		if name == "" {
			name = *username
		}
		u := directory.User{Username: *username, DisplayName: name, Avatar: *avatar}
		if err := dirRepo.NewPgUserRepository(pool).Upsert(ctx, u); err != nil {
			log.Fatal().Err(err).Str("user", *username).Msg("failed to register user")
		}
		log.Info().Str("user", *username).Msg("user registered")
	}

	token, expiresAt, err := session.NewManager(cfg.SessionSecret, cfg.SessionTTL).Issue(*username)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to issue token")
	}
	log.Debug().Time("expires_at", expiresAt).Msg("token issued")
	fmt.Println(token)
}
