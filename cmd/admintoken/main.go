// Command admintoken prints a signed token for the order dashboard.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"bakery-be/internal/auth"
	"bakery-be/internal/config"
	"bakery-be/internal/logger"
	"bakery-be/internal/utils"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)

	subject := flag.String("sub", "admin", "token subject")
	ttl := flag.Duration("ttl", 12*time.Hour, "token lifetime")
	flag.Parse()

	if err := issue(os.Stdout, cfg.JWTSecret, *subject, *ttl, time.Now()); err != nil {
		logger.L().Fatal("failed to issue token", zap.Error(err))
	}
}

func issue(w io.Writer, secret, subject string, ttl time.Duration, now time.Time) error {
	if secret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	token, err := auth.Issue([]byte(secret), subject, utils.RoleAdmin, ttl, now)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, token)
	return err
}
