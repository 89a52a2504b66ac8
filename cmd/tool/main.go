package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/infrastructure/security"
)

// Mints bearer tokens for the admin API and optionally smoke-tests a running
// instance by opening an editing screen.
func main() {
	_ = godotenv.Load()

	var (
		secret = flag.String("secret", os.Getenv("JWT_SECRET"), "HS256 secret (defaults to $JWT_SECRET)")
		issuer = flag.String("issuer", envOr("JWT_ISSUER", "user-admin-service"), "token issuer")
		role   = flag.String("role", string(domain.RoleAdmin), "role claim: user|moderator|admin")
		ttl    = flag.Duration("ttl", time.Hour, "token lifetime")
		n      = flag.Int("n", 1, "number of tokens to mint")
		out    = flag.String("out", "", "write tokens to this file instead of stdout")
		smoke  = flag.String("smoke", "", "base URL to smoke-test, e.g. http://localhost:8080")
	)
	flag.Parse()

	if *secret == "" {
		fail("missing -secret or JWT_SECRET")
	}
	if !domain.IsValidRole(*role) {
		fail(fmt.Sprintf("invalid role %q", *role))
	}

	signer := security.NewJWTSigner(*secret, *issuer)

	w := io.Writer(os.Stdout)
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			fail(err.Error())
		}
		defer f.Close()
		w = f
	}

	var first string
	for i := 0; i < *n; i++ {
		tok, err := signer.SignAccessToken(uuid.NewString(), *role, *ttl)
		if err != nil {
			fail(err.Error())
		}
		if i == 0 {
			first = tok
		}
		fmt.Fprintln(w, tok)
	}

	if *smoke != "" {
		if err := smokeTest(strings.TrimRight(*smoke, "/"), first); err != nil {
			fail(err.Error())
		}
	}
}

func smokeTest(base, token string) error {
	client := &http.Client{Timeout: 10 * time.Second}

	body, _ := json.Marshal(map[string]any{"page": 0, "size": 10})
	req, err := http.NewRequest(http.MethodPost, base+"/admin/v1/screens", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("open screen: %s: %s", resp.Status, raw)
	}

	var result struct {
		Data struct {
			SessionID string `json:"session_id"`
			Listing   []any  `json:"listing"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "SESSION_ID:%s rows=%d\n", result.Data.SessionID, len(result.Data.Listing))

	del, _ := http.NewRequest(http.MethodDelete, base+"/admin/v1/screens/"+result.Data.SessionID, nil)
	del.Header.Set("Authorization", "Bearer "+token)
	if resp, err := client.Do(del); err == nil {
		resp.Body.Close()
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func fail(msg string) {
	fmt.Fprintln(os.Stderr, "error:", msg)
	os.Exit(1)
}
