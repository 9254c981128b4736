package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"dashboard/internal/webhook"
)

func main() {
	var (
		url      = flag.String("url", "", "webhook endpoint url (defaults to http://localhost<HTTP_ADDR>/v1/webhooks/status-changed)")
		secret   = flag.String("secret", os.Getenv("WEBHOOK_SECRET"), "WEBHOOK_SECRET")
		domain   = flag.String("domain", "orders", "entity domain: orders, products, bookings, system-services, brands")
		entityID = flag.String("id", "", "entity id")
		status   = flag.String("status", "", "new status")
		payload  = flag.String("payload", "", "optional path to a json payload file; overrides -domain/-id/-status")
	)
	flag.Parse()

	if *url == "" {
		httpAddr := os.Getenv("HTTP_ADDR")
		if httpAddr == "" {
			httpAddr = ":8081"
		}
		if httpAddr[0] == ':' {
			*url = "http://localhost" + httpAddr + "/v1/webhooks/status-changed"
		} else {
			*url = "http://" + httpAddr + "/v1/webhooks/status-changed"
		}
	}
	if *secret == "" {
		fmt.Fprintln(os.Stderr, "missing -secret")
		os.Exit(2)
	}

	var b []byte
	var err error
	if *payload != "" {
		b, err = os.ReadFile(*payload)
	} else {
		if *entityID == "" || *status == "" {
			fmt.Fprintln(os.Stderr, "missing -id or -status")
			os.Exit(2)
		}
		b, err = json.Marshal(webhook.StatusChanged{Domain: *domain, EntityID: *entityID, Status: *status})
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "build payload: %v\n", err)
		os.Exit(2)
	}

	req, err := http.NewRequest(http.MethodPost, *url, bytes.NewReader(b))
	if err != nil {
		fmt.Fprintf(os.Stderr, "new request: %v\n", err)
		os.Exit(2)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(webhook.SignatureHeader, webhook.Sign(b, *secret))

	c := &http.Client{Timeout: 10 * time.Second}
	resp, err := c.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "post: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	fmt.Printf("status=%d\n%s\n", resp.StatusCode, string(body))
}
