// Package api is the client for the DevReady backend REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/devndesk/DevReady/internal/profile"
)

// maxErrorBody caps how much of an error response is kept in StatusError.
const maxErrorBody = 512

// DefaultDifficulty is assumed for cards that carry none.
const DefaultDifficulty = "Easy"

// Card is a flashcard returned by the backend.
type Card struct {
	ID            string   `json:"id"`
	Category      string   `json:"category"`
	Question      string   `json:"question"`
	CorrectAnswer string   `json:"correctAnswer"`
	Options       []string `json:"options"`
	Difficulty    string   `json:"difficulty"`
}

// HasOptions reports whether the card is multiple-choice. Cards without
// options are answered by flipping and self-rating.
func (c Card) HasOptions() bool { return len(c.Options) > 0 }

// DifficultyOrDefault returns the card difficulty, or DefaultDifficulty.
func (c Card) DifficultyOrDefault() string {
	if c.Difficulty == "" {
		return DefaultDifficulty
	}
	return c.Difficulty
}

// Progress is one answered question reported to the backend.
type Progress struct {
	Topic      string
	Correct    bool
	Difficulty string
}

// Backend is the set of remote operations the client depends on.
type Backend interface {
	GetUser(ctx context.Context, email string) (profile.Remote, error)
	SyncUser(ctx context.Context, p profile.UserProfile) (profile.Remote, error)
	UpdateProgress(ctx context.Context, userID string, pr Progress) (profile.Remote, error)
	RandomCard(ctx context.Context, topic string, excludeIDs []string) (Card, error)
	Leaderboard(ctx context.Context, leagueGroupID string) ([]profile.Remote, error)
}

// Client talks to the backend over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a Client for baseURL (e.g. "https://devready.onrender.com/api").
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ Backend = (*Client)(nil)

// GetUser fetches the profile for email. The backend creates a default
// profile when the email is unknown.
func (c *Client) GetUser(ctx context.Context, email string) (profile.Remote, error) {
	var out profile.Remote
	err := c.do(ctx, "get user", http.MethodGet, "/users/"+url.PathEscape(email), nil, nil, &out)
	return out, err
}

// SyncUser upserts p by email and returns the authoritative profile,
// including the ID the backend assigned to a new user.
func (c *Client) SyncUser(ctx context.Context, p profile.UserProfile) (profile.Remote, error) {
	var out profile.Remote
	err := c.do(ctx, "sync user", http.MethodPost, "/users/sync", nil, p, &out)
	return out, err
}

// UpdateProgress records one answer and returns the user's updated
// progress fields.
func (c *Client) UpdateProgress(ctx context.Context, userID string, pr Progress) (profile.Remote, error) {
	q := url.Values{}
	q.Set("category", pr.Topic)
	q.Set("correct", strconv.FormatBool(pr.Correct))
	q.Set("difficulty", pr.Difficulty)

	var out profile.Remote
	err := c.do(ctx, "update progress", http.MethodPost, "/users/"+url.PathEscape(userID)+"/progress", q, nil, &out)
	return out, err
}

// RandomCard returns a random card for topic that is not in excludeIDs.
// The backend may wrap around and return an excluded card once every
// card has been seen.
func (c *Client) RandomCard(ctx context.Context, topic string, excludeIDs []string) (Card, error) {
	q := url.Values{}
	if topic != "" {
		q.Set("category", topic)
	}
	for _, id := range excludeIDs {
		q.Add("excludeIds", id)
	}

	var out *Card
	if err := c.do(ctx, "random card", http.MethodGet, "/flashcards/random", q, nil, &out); err != nil {
		return Card{}, err
	}
	if out == nil {
		return Card{}, fmt.Errorf("random card: %w", ErrNotFound)
	}
	return *out, nil
}

// Leaderboard returns the members of a league group as sent by the
// backend.
func (c *Client) Leaderboard(ctx context.Context, leagueGroupID string) ([]profile.Remote, error) {
	q := url.Values{}
	q.Set("leagueGroupId", leagueGroupID)

	var out []profile.Remote
	err := c.do(ctx, "leaderboard", http.MethodGet, "/league/leaderboard", q, nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("backend request failed",
			zap.String("op", op),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return &ErrUnavailable{Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.log.Debug("backend request",
		zap.String("op", op),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Op: op, Code: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ErrUnavailable{Op: op, Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		data = []byte("null")
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &ErrDecode{Op: op, Err: err}
	}
	return nil
}
