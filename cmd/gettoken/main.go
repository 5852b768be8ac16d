// Command gettoken runs the OAuth consent flow once and stores the token
// used by the server to reach Google Sheets.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/oauth2"

	"github.com/example/revtrack/internal/sheets"
)

func main() {
	_ = godotenv.Load()

	credentialsFile := getEnv("GOOGLE_CREDENTIALS_FILE", "credentials/client_secret.json")
	tokenFile := getEnv("GOOGLE_TOKEN_FILE", "credentials/token.json")

	config, err := sheets.OAuthConfig(credentialsFile)
	if err != nil {
		log.Fatalf("Unable to load client secret: %v", err)
	}

	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Authorize this app by visiting this URL:\n%s\n", authURL)

	fmt.Print("\nEnter the code from that page here: ")
	code, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		log.Fatalf("Unable to read authorization code: %v", err)
	}

	tok, err := config.Exchange(context.Background(), strings.TrimSpace(code))
	if err != nil {
		log.Fatalf("Error retrieving access token: %v", err)
	}

	if err := sheets.SaveToken(tokenFile, tok); err != nil {
		log.Fatalf("Unable to save token: %v", err)
	}
	fmt.Printf("\nToken stored to %s\n", tokenFile)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
