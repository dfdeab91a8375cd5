package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spendlog/spendlog/internal/config"
	"github.com/spendlog/spendlog/internal/logging"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Config{
		AppName:   "spendlog-test",
		AppEnv:    "development",
		Port:      "0",
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
	}
	srv, err := New(cfg, nil, nil, logging.Discard())
	if err != nil {
		t.Fatalf("build server: %v", err)
	}
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = strings.NewReader(string(payload))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := srv.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	resp.Body.Close()
	var decoded map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode %s: %v", raw, err)
		}
	}
	return resp, decoded
}

func doJSONList(t *testing.T, srv *Server, path, token string) (*http.Response, []map[string]any) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err := srv.app.Test(req, -1)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	resp.Body.Close()
	var list []map[string]any
	if err := json.Unmarshal(raw, &list); err != nil {
		t.Fatalf("decode list %s: %v", raw, err)
	}
	return resp, list
}

func signupUser(t *testing.T, srv *Server, name, email string) (id, token string) {
	t.Helper()
	resp, body := doJSON(t, srv, fiber.MethodPost, "/api/users/signup", "", fiber.Map{
		"name": name, "email": email, "password": "hunter22",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d (%v)", resp.StatusCode, body)
	}
	user, _ := body["user"].(map[string]any)
	id, _ = user["id"].(string)
	token, _ = user["token"].(string)
	if id == "" || token == "" {
		t.Fatalf("signup: missing id or token in %v", body)
	}
	return id, token
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, srv, fiber.MethodGet, "/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ok, _ := body["ok"].(bool); !ok {
		t.Fatalf("expected ok:true, got %v", body)
	}
}

func TestSignupLoginScenario(t *testing.T) {
	srv := newTestServer(t)

	_, _ = signupUser(t, srv, "Ada", "ada@example.com")

	// Signup with an already-registered email fails with a message.
	resp, body := doJSON(t, srv, fiber.MethodPost, "/api/users/signup", "", fiber.Map{
		"name": "Eve", "email": "ada@example.com", "password": "hunter23",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("duplicate signup: expected 400, got %d", resp.StatusCode)
	}
	if msg, _ := body["error"].(string); msg == "" {
		t.Fatalf("duplicate signup: expected error message, got %v", body)
	}

	// Wrong password is rejected.
	resp, _ = doJSON(t, srv, fiber.MethodPost, "/api/users/login", "", fiber.Map{
		"email": "ada@example.com", "password": "wrong",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad login: expected 401, got %d", resp.StatusCode)
	}

	// Correct password yields a usable token.
	resp, body = doJSON(t, srv, fiber.MethodPost, "/api/users/login", "", fiber.Map{
		"email": "ada@example.com", "password": "hunter22",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", resp.StatusCode)
	}
	user, _ := body["user"].(map[string]any)
	token, _ := user["token"].(string)
	if token == "" {
		t.Fatalf("login: missing token in %v", body)
	}

	// A brand-new user sees an empty sequence.
	resp, list := doJSONList(t, srv, "/api/transactions", token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", resp.StatusCode)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list for new user, got %d items", len(list))
	}
}

func TestTransactionsRequireToken(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, srv, fiber.MethodGet, "/api/transactions", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}
	if msg, _ := body["error"].(string); msg == "" {
		t.Fatalf("expected JSON error body, got %v", body)
	}

	resp, _ = doJSON(t, srv, fiber.MethodGet, "/api/transactions", "garbage-token", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 with bogus token, got %d", resp.StatusCode)
	}
}

func TestTransactionCRUDOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	userID, token := signupUser(t, srv, "Ada", "ada@example.com")

	resp, created := doJSON(t, srv, fiber.MethodPost, "/api/transactions", token, fiber.Map{
		"title":    "Groceries",
		"amount":   42.5,
		"type":     "expense",
		"category": "Food",
		"date":     "2024-03-10",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d (%v)", resp.StatusCode, created)
	}
	if created["ownerId"] != userID {
		t.Fatalf("expected ownerId %s, got %v", userID, created["ownerId"])
	}
	txID, _ := created["id"].(string)
	if txID == "" {
		t.Fatalf("create: missing id in %v", created)
	}

	resp, fetched := doJSON(t, srv, fiber.MethodGet, "/api/transactions/"+txID, token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", resp.StatusCode)
	}
	if fetched["title"] != "Groceries" || fetched["category"] != "Food" {
		t.Fatalf("get: unexpected record %v", fetched)
	}

	// Partial update only touches the given field.
	resp, updated := doJSON(t, srv, fiber.MethodPut, "/api/transactions/"+txID, token, fiber.Map{
		"amount": 50,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: expected 200, got %d (%v)", resp.StatusCode, updated)
	}
	if updated["title"] != "Groceries" || updated["type"] != "expense" {
		t.Fatalf("update: expected other fields unchanged, got %v", updated)
	}

	resp, _ = doJSON(t, srv, fiber.MethodDelete, "/api/transactions/"+txID, token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, srv, fiber.MethodDelete, "/api/transactions/"+txID, token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", resp.StatusCode)
	}
}

func TestCreateValidationOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	_, token := signupUser(t, srv, "Ada", "ada@example.com")

	resp, body := doJSON(t, srv, fiber.MethodPost, "/api/transactions", token, fiber.Map{
		"title": "Bad", "amount": -5, "type": "expense", "category": "misc",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if msg, _ := body["error"].(string); !strings.Contains(msg, "amount") {
		t.Fatalf("expected error naming the amount field, got %v", body)
	}

	resp, _ = doJSON(t, srv, fiber.MethodPost, "/api/transactions", token, fiber.Map{
		"title": "Bad", "amount": 5, "type": "transfer", "category": "misc",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad type, got %d", resp.StatusCode)
	}

	// Nothing persisted.
	_, list := doJSONList(t, srv, "/api/transactions", token)
	if len(list) != 0 {
		t.Fatalf("expected nothing persisted, got %d items", len(list))
	}
}

func TestMalformedIDOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	_, token := signupUser(t, srv, "Ada", "ada@example.com")

	resp, _ := doJSON(t, srv, fiber.MethodGet, "/api/transactions/not-a-uuid", token, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d", resp.StatusCode)
	}
}

func TestCrossUserIsolationOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	_, aliceToken := signupUser(t, srv, "Alice", "alice@example.com")
	_, bobToken := signupUser(t, srv, "Bob", "bob@example.com")

	_, created := doJSON(t, srv, fiber.MethodPost, "/api/transactions", aliceToken, fiber.Map{
		"title": "Private", "amount": 10, "type": "expense", "category": "misc",
	})
	txID, _ := created["id"].(string)

	resp, _ := doJSON(t, srv, fiber.MethodGet, "/api/transactions/"+txID, bobToken, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for other user's record, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, srv, fiber.MethodPut, "/api/transactions/"+txID, bobToken, fiber.Map{"title": "stolen"})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 updating other user's record, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, srv, fiber.MethodDelete, "/api/transactions/"+txID, bobToken, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 deleting other user's record, got %d", resp.StatusCode)
	}
}

func TestListOrderingOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	_, token := signupUser(t, srv, "Ada", "ada@example.com")

	for i, date := range []string{"2024-01-02", "2024-01-05", "2024-01-01"} {
		resp, body := doJSON(t, srv, fiber.MethodPost, "/api/transactions", token, fiber.Map{
			"title": fmt.Sprintf("tx-%d", i), "amount": 1, "type": "income", "category": "misc", "date": date,
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("create %d: expected 201, got %d (%v)", i, resp.StatusCode, body)
		}
	}

	_, list := doJSONList(t, srv, "/api/transactions", token)
	if len(list) != 3 {
		t.Fatalf("expected 3 records, got %d", len(list))
	}
	var dates []string
	for _, item := range list {
		d, _ := item["date"].(string)
		dates = append(dates, d[:10])
	}
	want := []string{"2024-01-05", "2024-01-02", "2024-01-01"}
	for i := range want {
		if dates[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, dates)
		}
	}
}

func TestDeleteAllOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	_, token := signupUser(t, srv, "Ada", "ada@example.com")

	for i := 0; i < 2; i++ {
		doJSON(t, srv, fiber.MethodPost, "/api/transactions", token, fiber.Map{
			"title": "tx", "amount": 1, "type": "income", "category": "misc",
		})
	}

	resp, body := doJSON(t, srv, fiber.MethodDelete, "/api/transactions", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete all: expected 200, got %d", resp.StatusCode)
	}
	if count, _ := body["deletedCount"].(float64); count != 2 {
		t.Fatalf("expected deletedCount 2, got %v", body)
	}

	resp, body = doJSON(t, srv, fiber.MethodDelete, "/api/transactions", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("second delete all: expected 200, got %d", resp.StatusCode)
	}
	if count, _ := body["deletedCount"].(float64); count != 0 {
		t.Fatalf("expected deletedCount 0 on second call, got %v", body)
	}
}
