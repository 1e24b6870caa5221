// Command devtoken prints a caller access token signed with the local
// JWT settings, for exercising the API without an upstream IdP.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	jwttoken "idverify/internal/jwt_token"
	"idverify/internal/platform/config"
	id "idverify/pkg/domain"
)

func main() {
	userFlag := flag.String("user", "", "caller user id (random when empty)")
	clientFlag := flag.String("client", "devtoken", "client id claim")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fail(err)
	}
	cfg, err := config.FromEnv()
	if err != nil {
		fail(err)
	}

	userID := id.UserID(uuid.New())
	if *userFlag != "" {
		if userID, err = id.ParseUserID(*userFlag); err != nil {
			fail(err)
		}
	}

	svc := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience)
	token, err := svc.GenerateAccessToken(userID, *clientFlag, *ttl)
	if err != nil {
		fail(err)
	}
	fmt.Println(token)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "devtoken:", err)
	os.Exit(1)
}
