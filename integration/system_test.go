//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"testing"
	"time"
)

var baseURL = getenv("E2E_BASE_URL", "http://localhost:3001")

func TestSystem_E2E_Catalog(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	waitReady(t, ctx, baseURL+"/readyz")

	var before []map[string]any
	doJSON(t, http.MethodGet, baseURL+"/api/products", nil, &before, 200)

	name := fmt.Sprintf("e2e_%d", time.Now().UnixNano())
	var created map[string]any
	postForm(t, baseURL+"/api/products", map[string]string{
		"name":        name,
		"description": "end to end product",
		"price":       "10.5",
		"stock":       "4",
		"category":    name,
	}, &created, 201)

	id, _ := created["id"].(float64)
	if id == 0 {
		t.Fatalf("id missing: %#v", created)
	}

	var after []map[string]any
	doJSON(t, http.MethodGet, baseURL+"/api/products", nil, &after, 200)
	if len(after) != len(before)+1 {
		t.Fatalf("len=%d want=%d", len(after), len(before)+1)
	}

	var updated map[string]any
	doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/products/%d", baseURL, int64(id)), map[string]any{"stock": 10}, &updated, 200)

	var rev struct {
		TotalOrders  int     `json:"totalOrders"`
		TotalRevenue float64 `json:"totalRevenue"`
	}
	doJSON(t, http.MethodGet, baseURL+"/api/analytics/revenue?category="+name, nil, &rev, 200)
	if rev.TotalOrders != 1 || rev.TotalRevenue != 105 {
		t.Fatalf("revenue=%+v", rev)
	}

	doJSON(t, http.MethodPut, baseURL+"/api/products/999999", map[string]any{"stock": 1}, nil, 404)
}

func waitReady(t *testing.T, ctx context.Context, url string) {
	t.Helper()
	client := &http.Client{Timeout: 2 * time.Second}

	deadline := time.Now().Add(30 * time.Second)
	for time.Now().Before(deadline) {
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		resp, err := client.Do(req)
		if err == nil && resp != nil && resp.StatusCode == 200 {
			_ = resp.Body.Close()
			return
		}
		if resp != nil {
			_ = resp.Body.Close()
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("service not ready: %s", url)
}

func postForm(t *testing.T, url string, fields map[string]string, out any, want int) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	_ = mw.Close()

	req, err := http.NewRequest(http.MethodPost, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	send(t, req, out, want)
}

func doJSON(t *testing.T, method, url string, body any, out any, want int) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	send(t, req, out, want)
}

func send(t *testing.T, req *http.Request, out any, want int) {
	t.Helper()

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		t.Fatalf("%s %s: status=%d want=%d", req.Method, req.URL, resp.StatusCode, want)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
