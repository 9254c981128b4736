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

	"dashboard/internal/lifecycle"
	"dashboard/pkg/authtoken"
	"dashboard/pkg/config"
)

// devflow drives one transition against a local server the way the dashboard does: it mints
// a session token, prints the actions offered for the entity, then submits the chosen one.
func main() {
	var (
		baseURL = flag.String("base-url", "", "api base url (defaults to http://localhost<HTTP_ADDR>/v1)")
		domain  = flag.String("domain", "orders", "entity domain")
		id      = flag.String("id", "", "entity id")
		user    = flag.String("user", "dev-admin", "session user id")
		roleArg = flag.String("role", "ADMIN", "session role")
		to      = flag.String("to", "", "target status; when empty only the offered actions are printed")
		reason  = flag.String("reason", "", "reason for reject/ban/cancel transitions")
		files   = flag.String("evidence", "", "comma-separated evidence file urls for completion transitions")
		note    = flag.String("note", "", "result note for completion transitions")
	)
	flag.Parse()

	if *id == "" {
		fmt.Fprintln(os.Stderr, "missing -id")
		os.Exit(2)
	}

	cfg := config.Load()
	if *baseURL == "" {
		*baseURL = defaultBaseURL(cfg.HTTPAddr)
	}
	if cfg.Session.Secret == "" {
		fmt.Fprintln(os.Stderr, "missing SESSION_SECRET in env/.env")
		os.Exit(2)
	}

	token, err := authtoken.Sign(cfg.Session.Secret, cfg.Session.Audience, *user, *roleArg, time.Now(), 15*time.Minute)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sign session token: %v\n", err)
		os.Exit(1)
	}
	c := &http.Client{Timeout: 20 * time.Second}
	entityURL := strings.TrimRight(*baseURL, "/") + "/" + *domain + "/" + *id

	status, body := call(c, http.MethodGet, entityURL, token, nil)
	fmt.Printf("GET %s status=%d\n%s\n", entityURL, status, body)
	if *to == "" || status != http.StatusOK {
		return
	}

	req := lifecycle.TransitionRequest{Status: *to, ResultNote: *note}
	if *reason != "" {
		req.Reason = reason
	}
	for _, f := range strings.Split(*files, ",") {
		if f = strings.TrimSpace(f); f != "" {
			req.EvidenceFiles = append(req.EvidenceFiles, f)
		}
	}

	status, body = call(c, http.MethodPost, entityURL+"/transitions", token, req)
	fmt.Printf("POST %s/transitions status=%d\n%s\n", entityURL, status, body)
	if status != http.StatusOK {
		os.Exit(1)
	}
}

func call(c *http.Client, method, url, token string, in any) (int, string) {
	var buf bytes.Buffer
	if in != nil {
		if err := json.NewEncoder(&buf).Encode(in); err != nil {
			fmt.Fprintf(os.Stderr, "encode: %v\n", err)
			os.Exit(2)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "new request: %v\n", err)
		os.Exit(2)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %s: %v\n", method, url, err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b)
}

func defaultBaseURL(httpAddr string) string {
	if httpAddr == "" {
		httpAddr = ":8081"
	}
	if strings.HasPrefix(httpAddr, ":") {
		return "http://localhost" + httpAddr + "/v1"
	}
	return "http://" + httpAddr + "/v1"
}
