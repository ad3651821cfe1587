// Command devtoken prints a bearer token accepted by a server running with
// AUTH_SHARED_SECRET, for local testing without an identity provider.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/cinereview/internal/auth"
)

func main() {
	_ = godotenv.Load()
	sub := flag.String("sub", "dev|local", "subject claim")
	email := flag.String("email", "dev@example.com", "email claim")
	name := flag.String("name", "", "name claim")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	secret := os.Getenv("AUTH_SHARED_SECRET")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "AUTH_SHARED_SECRET is not set")
		os.Exit(1)
	}
	tok, exp, err := auth.SignDevToken(secret, os.Getenv("AUTH_ISSUER"), os.Getenv("AUTH_AUDIENCE"),
		auth.DevToken{Subject: *sub, Email: *email, Name: *name, TTL: *ttl})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(tok)
	fmt.Fprintf(os.Stderr, "expires %s\n", exp.Format(time.RFC3339))
}
