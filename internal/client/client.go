package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spendlog/spendlog/internal/transaction"
)

// ErrUnauthenticated indicates the session has no token for a protected call.
var ErrUnauthenticated = errors.New("not logged in")

// APIError carries the status and error message of a non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Client is a thin HTTP wrapper over the SpendLog REST API. It attaches the
// session's bearer token to every transaction request.
type Client struct {
	baseURL string
	http    *http.Client
	session *Session
}

// New builds a client for the API at baseURL using the provided session.
func New(baseURL string, session *Session) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		session: session,
	}
}

// TransactionDraft carries the client-supplied fields of a create or update.
// Nil fields are omitted so updates stay partial.
type TransactionDraft struct {
	Title       *string `json:"title,omitempty"`
	Amount      *string `json:"amount,omitempty"`
	Type        *string `json:"type,omitempty"`
	Category    *string `json:"category,omitempty"`
	Description *string `json:"description,omitempty"`
	Date        *string `json:"date,omitempty"`
}

type userEnvelope struct {
	User struct {
		Profile
		Token string `json:"token"`
	} `json:"user"`
}

// SignUp registers an account and stores the returned token in the session.
func (c *Client) SignUp(ctx context.Context, name, email, password string) (Profile, error) {
	return c.authenticate(ctx, "/api/users/signup", map[string]string{
		"name": name, "email": email, "password": password,
	})
}

// LogIn authenticates and stores the returned token in the session.
func (c *Client) LogIn(ctx context.Context, email, password string) (Profile, error) {
	return c.authenticate(ctx, "/api/users/login", map[string]string{
		"email": email, "password": password,
	})
}

// LogOut clears the session; the server keeps no session state.
func (c *Client) LogOut() error {
	return c.session.Clear()
}

func (c *Client) authenticate(ctx context.Context, path string, body map[string]string) (Profile, error) {
	var envelope userEnvelope
	if err := c.do(ctx, http.MethodPost, path, body, &envelope, false); err != nil {
		return Profile{}, err
	}

	c.session.Token = envelope.User.Token
	c.session.User = envelope.User.Profile
	if err := c.session.Save(); err != nil {
		return Profile{}, err
	}
	return envelope.User.Profile, nil
}

// ListTransactions fetches the caller's transactions, most recent first.
func (c *Client) ListTransactions(ctx context.Context) ([]transaction.Transaction, error) {
	var list []transaction.Transaction
	if err := c.do(ctx, http.MethodGet, "/api/transactions", nil, &list, true); err != nil {
		return nil, err
	}
	return list, nil
}

// GetTransaction fetches one transaction by identifier.
func (c *Client) GetTransaction(ctx context.Context, id string) (transaction.Transaction, error) {
	var tx transaction.Transaction
	if err := c.do(ctx, http.MethodGet, "/api/transactions/"+id, nil, &tx, true); err != nil {
		return transaction.Transaction{}, err
	}
	return tx, nil
}

// CreateTransaction creates a new transaction from the draft.
func (c *Client) CreateTransaction(ctx context.Context, draft TransactionDraft) (transaction.Transaction, error) {
	var tx transaction.Transaction
	if err := c.do(ctx, http.MethodPost, "/api/transactions", draft, &tx, true); err != nil {
		return transaction.Transaction{}, err
	}
	return tx, nil
}

// UpdateTransaction applies the draft's non-nil fields to an existing record.
func (c *Client) UpdateTransaction(ctx context.Context, id string, draft TransactionDraft) (transaction.Transaction, error) {
	var tx transaction.Transaction
	if err := c.do(ctx, http.MethodPut, "/api/transactions/"+id, draft, &tx, true); err != nil {
		return transaction.Transaction{}, err
	}
	return tx, nil
}

// DeleteTransaction removes one transaction.
func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/transactions/"+id, nil, nil, true)
}

// DeleteAllTransactions removes every transaction of the caller and reports
// how many were deleted.
func (c *Client) DeleteAllTransactions(ctx context.Context) (int64, error) {
	var result struct {
		DeletedCount int64 `json:"deletedCount"`
	}
	if err := c.do(ctx, http.MethodDelete, "/api/transactions", nil, &result, true); err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	if authed && !c.session.Authenticated() {
		return ErrUnauthenticated
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var serverErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &serverErr) == nil && serverErr.Error != "" {
			apiErr.Message = serverErr.Error
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}
