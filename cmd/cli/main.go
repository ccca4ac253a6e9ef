package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
)

func main() {
	api := os.Getenv("API_BASE")
	if api == "" {
		api = "http://localhost:8081"
	}

	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Enter a URL to monitor (e.g., https://example.com): ")
	raw, _ := reader.ReadString('\n')
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		fmt.Println("Invalid URL.")
		return
	}

	fmt.Print("Name (optional): ")
	name, _ := reader.ReadString('\n')
	name = strings.TrimSpace(name)

	body, _ := json.Marshal(map[string]string{"url": raw, "name": name})
	req, _ := http.NewRequest(http.MethodPost, api+"/config/endpoints", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if key := os.Getenv("ADMIN_API_KEY"); key != "" {
		req.Header.Set("X-API-Key", key)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Println("Request failed:", err)
		return
	}
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Server said %d: %v\n", resp.StatusCode, out["error"])
		return
	}
	fmt.Printf("Added. Now monitoring %v endpoints.\n", out["endpoints_count"])
}
