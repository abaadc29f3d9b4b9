// Command smoke drives a running form server end to end: liveness,
// backend readiness, an empty submission and a real one.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/agenthands/askform/internal/view"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using defaults")
	}

	baseURL := os.Getenv("ASKFORM_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	query := os.Getenv("ASKFORM_QUERY")
	if len(os.Args) > 1 {
		query = os.Args[1]
	}
	if query == "" {
		query = "What are the FY2025 productivity measures?"
	}

	client := &http.Client{Timeout: 2 * time.Minute}

	fmt.Println("1. Liveness...")
	if status, _ := send(client, http.MethodGet, baseURL+"/healthz", nil); status != http.StatusOK {
		fmt.Println("FAILED: /healthz")
		os.Exit(1)
	}
	fmt.Println("PASSED: /healthz")

	// Readiness only reports; a degraded backend still answers with an error banner.
	fmt.Println("2. Backend readiness...")
	status, body := send(client, http.MethodGet, baseURL+"/readyz", nil)
	fmt.Printf("readyz %d: %s\n", status, body)

	fmt.Println("3. Empty query...")
	state, ok := submit(client, baseURL, "   ")
	if !ok || state.Error.Text != "Please enter a query." {
		fmt.Printf("FAILED: empty query produced %+v\n", state.Error)
		os.Exit(1)
	}
	fmt.Println("PASSED: empty query")

	fmt.Printf("4. Asking %q...\n", query)
	state, ok = submit(client, baseURL, query)
	if !ok || state.Loading {
		fmt.Println("FAILED: submit")
		os.Exit(1)
	}
	if state.Error.Visible {
		fmt.Printf("Error banner: %s\n", state.Error.Text)
	} else {
		fmt.Printf("Answer: %s\n", state.Result.Answer)
		fmt.Printf("Confidence: %s\n", state.Result.Confidence)
		fmt.Printf("Final reason: %s\n", state.Result.FinalReason)
		if state.Result.Applicability.Visible {
			fmt.Println(state.Result.Applicability.Text)
		}
		if state.Result.Uncertainty.Visible {
			fmt.Println(state.Result.Uncertainty.Text)
		}
	}
	fmt.Println("PASSED: submit")
}

func submit(client *http.Client, baseURL, query string) (view.State, bool) {
	var state view.State
	payload, _ := json.Marshal(map[string]string{"query": query})

	status, body := send(client, http.MethodPost, baseURL+"/api/submit", payload)
	if status != http.StatusOK {
		return state, false
	}
	if err := json.Unmarshal(body, &state); err != nil {
		fmt.Printf("Error decoding response: %v\n", err)
		return state, false
	}
	return state, true
}

func send(client *http.Client, method, url string, payload []byte) (int, []byte) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		return 0, nil
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		return 0, nil
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed with status %d: %s\n", resp.StatusCode, string(respBody))
	}
	return resp.StatusCode, respBody
}
