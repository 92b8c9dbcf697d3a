package integration_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"
)

// ============================================================================
// Test Configuration
// ============================================================================

// These tests run against a live server (and its Postgres/Redis). Start the
// stack, then: TEST_BASE_URL=http://localhost:8080 go test ./tests/...

var baseURL = getEnv("TEST_BASE_URL", "http://localhost:8080")

const apiPrefix = "/api/v1"

// ============================================================================
// HTTP Client Helpers
// ============================================================================

type apiClient struct {
	client  *http.Client
	baseURL string
	token   string
}

func newClient() *apiClient {
	return &apiClient{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL + apiPrefix,
	}
}

func (c *apiClient) withToken(token string) *apiClient {
	c.token = token
	return c
}

func (c *apiClient) do(method, path string, body interface{}) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return c.client.Do(req)
}

func (c *apiClient) get(path string) (*http.Response, error) {
	return c.do("GET", path, nil)
}

func (c *apiClient) post(path string, body interface{}) (*http.Response, error) {
	return c.do("POST", path, body)
}

func (c *apiClient) patch(path string, body interface{}) (*http.Response, error) {
	return c.do("PATCH", path, body)
}

func (c *apiClient) delete(path string) (*http.Response, error) {
	return c.do("DELETE", path, nil)
}

// envelope mirrors the response wrapper every endpoint uses.
type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
	Errors     []string        `json:"errors"`
}

func parseEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("Parse response envelope: %v", err)
	}
	if env.StatusCode != resp.StatusCode {
		t.Errorf("envelope statusCode = %d, header status = %d", env.StatusCode, resp.StatusCode)
	}
	return env
}

func decodeData(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("Decode envelope data: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// requireServer skips the test when no server is listening at baseURL.
func requireServer(t *testing.T) {
	t.Helper()
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		t.Skipf("Server not available at %s, skipping: %v", baseURL, err)
	}
	resp.Body.Close()
}

// ============================================================================
// Account Helpers
// ============================================================================

type testAccount struct {
	ID       int64
	Username string
	Password string
	Token    string
}

// registerAccount creates a fresh user so tests never depend on seed data.
func registerAccount(t *testing.T, prefix string) *testAccount {
	t.Helper()

	username := fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
	password := "password123"

	resp, err := newClient().post("/auth/register", map[string]string{
		"username":  username,
		"email":     username + "@example.com",
		"password":  password,
		"full_name": "Integration Tester",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	env := parseEnvelope(t, resp)
	if resp.StatusCode != http.StatusCreated || !env.Success {
		t.Fatalf("Register failed: %d - %s", resp.StatusCode, env.Message)
	}

	var user struct {
		ID int64 `json:"id"`
	}
	decodeData(t, env, &user)

	account := &testAccount{ID: user.ID, Username: username, Password: password}
	account.Token = login(t, username, password)
	return account
}

func login(t *testing.T, username, password string) string {
	t.Helper()

	resp, err := newClient().post("/auth/login", map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	env := parseEnvelope(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Login failed: %d - %s", resp.StatusCode, env.Message)
	}

	var result struct {
		AccessToken string `json:"access_token"`
	}
	decodeData(t, env, &result)
	if result.AccessToken == "" {
		t.Fatal("Login returned empty access token")
	}
	return result.AccessToken
}

// ============================================================================
// TEST CASES
// ============================================================================

// TestAuthFlow registers a user, logs in, and reads the profile back.
func TestAuthFlow(t *testing.T) {
	requireServer(t)

	account := registerAccount(t, "auth")
	client := newClient().withToken(account.Token)

	resp, err := client.get("/me")
	if err != nil {
		t.Fatalf("Get me: %v", err)
	}
	env := parseEnvelope(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Get me failed: %d - %s", resp.StatusCode, env.Message)
	}

	var me struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
	}
	decodeData(t, env, &me)
	if me.ID != account.ID || me.Username != account.Username {
		t.Errorf("me = %+v, want ID=%d Username=%s", me, account.ID, account.Username)
	}

	t.Log("✓ Auth flow test passed")
}

// TestErrorEnvelope verifies the error contract: success false, errors array
// always present, no data leakage on bad credentials.
func TestErrorEnvelope(t *testing.T) {
	requireServer(t)

	resp, err := newClient().post("/auth/login", map[string]string{
		"username": "nobody_here",
		"password": "wrong",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		t.Fatalf("Parse error body: %v", err)
	}
	if string(raw["success"]) != "false" {
		t.Errorf("success = %s, want false", raw["success"])
	}
	if errs, ok := raw["errors"]; !ok || string(errs) == "null" {
		t.Error("errors field must be a non-null array")
	}

	// Protected routes reject missing tokens with the same envelope
	resp, err = newClient().post("/tweets", map[string]string{"content": "hi"})
	if err != nil {
		t.Fatalf("Unauthenticated post: %v", err)
	}
	env := parseEnvelope(t, resp)
	if resp.StatusCode != http.StatusUnauthorized || env.Success {
		t.Errorf("unauthenticated post: status=%d success=%v, want 401/false", resp.StatusCode, env.Success)
	}

	t.Log("✓ Error envelope test passed")
}

// TestTweetLifecycle posts, edits, likes, and deletes a tweet.
func TestTweetLifecycle(t *testing.T) {
	requireServer(t)

	account := registerAccount(t, "tweeter")
	client := newClient().withToken(account.Token)

	// Create
	resp, err := client.post("/tweets", map[string]string{"content": "first tweet"})
	if err != nil {
		t.Fatalf("Create tweet: %v", err)
	}
	env := parseEnvelope(t, resp)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Create tweet failed: %d - %s", resp.StatusCode, env.Message)
	}
	var tweet struct {
		ID      int64  `json:"id"`
		Content string `json:"content"`
	}
	decodeData(t, env, &tweet)

	// Edit
	resp, err = client.patch(fmt.Sprintf("/tweets/%d", tweet.ID), map[string]string{"content": "edited tweet"})
	if err != nil {
		t.Fatalf("Update tweet: %v", err)
	}
	env = parseEnvelope(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Update tweet failed: %d - %s", resp.StatusCode, env.Message)
	}

	// Like toggles on, then off
	likePath := fmt.Sprintf("/likes/tweet/%d", tweet.ID)
	for _, wantLiked := range []bool{true, false} {
		resp, err = client.post(likePath, nil)
		if err != nil {
			t.Fatalf("Toggle like: %v", err)
		}
		env = parseEnvelope(t, resp)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Toggle like failed: %d - %s", resp.StatusCode, env.Message)
		}
		var toggle struct {
			Liked bool `json:"liked"`
		}
		decodeData(t, env, &toggle)
		if toggle.Liked != wantLiked {
			t.Errorf("liked = %v, want %v", toggle.Liked, wantLiked)
		}
	}

	// The owner's tweet list carries the edit
	resp, err = client.get(fmt.Sprintf("/users/%d/tweets", account.ID))
	if err != nil {
		t.Fatalf("List tweets: %v", err)
	}
	env = parseEnvelope(t, resp)
	var tweets []struct {
		ID      int64  `json:"id"`
		Content string `json:"content"`
	}
	decodeData(t, env, &tweets)
	if len(tweets) != 1 || tweets[0].Content != "edited tweet" {
		t.Errorf("tweets = %+v, want one edited tweet", tweets)
	}

	// Delete
	resp, err = client.delete(fmt.Sprintf("/tweets/%d", tweet.ID))
	if err != nil {
		t.Fatalf("Delete tweet: %v", err)
	}
	env = parseEnvelope(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Delete tweet failed: %d - %s", resp.StatusCode, env.Message)
	}

	t.Log("✓ Tweet lifecycle test passed")
}

// TestSubscriptionToggle subscribes one fresh user to another and back.
func TestSubscriptionToggle(t *testing.T) {
	requireServer(t)

	channel := registerAccount(t, "channel")
	viewer := registerAccount(t, "viewer")
	client := newClient().withToken(viewer.Token)

	togglePath := fmt.Sprintf("/subscriptions/%d", channel.ID)

	// Subscribe
	resp, err := client.post(togglePath, nil)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	env := parseEnvelope(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Subscribe failed: %d - %s", resp.StatusCode, env.Message)
	}
	var toggle struct {
		Subscribed bool `json:"subscribed"`
	}
	decodeData(t, env, &toggle)
	if !toggle.Subscribed {
		t.Error("subscribed = false after first toggle, want true")
	}

	// The channel's subscriber list now carries the viewer
	resp, err = newClient().get(fmt.Sprintf("/channels/%d/subscribers", channel.ID))
	if err != nil {
		t.Fatalf("List subscribers: %v", err)
	}
	env = parseEnvelope(t, resp)
	var subscribers []struct {
		ID int64 `json:"id"`
	}
	decodeData(t, env, &subscribers)
	found := false
	for _, s := range subscribers {
		if s.ID == viewer.ID {
			found = true
		}
	}
	if !found {
		t.Errorf("viewer %d missing from subscribers %+v", viewer.ID, subscribers)
	}

	// Toggle back off
	resp, err = client.post(togglePath, nil)
	if err != nil {
		t.Fatalf("Unsubscribe: %v", err)
	}
	env = parseEnvelope(t, resp)
	decodeData(t, env, &toggle)
	if toggle.Subscribed {
		t.Error("subscribed = true after second toggle, want false")
	}

	t.Log("✓ Subscription toggle test passed")
}

// TestPlaylistLifecycle creates a playlist and checks the video_count
// contract on single fetch and per-user listing.
func TestPlaylistLifecycle(t *testing.T) {
	requireServer(t)

	account := registerAccount(t, "curator")
	client := newClient().withToken(account.Token)

	resp, err := client.post("/playlists", map[string]string{
		"name":        "watch later",
		"description": "queued for the weekend",
	})
	if err != nil {
		t.Fatalf("Create playlist: %v", err)
	}
	env := parseEnvelope(t, resp)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Create playlist failed: %d - %s", resp.StatusCode, env.Message)
	}
	var playlist struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	decodeData(t, env, &playlist)

	// Single fetch reports a count consistent with the embedded videos
	resp, err = client.get(fmt.Sprintf("/playlists/%d", playlist.ID))
	if err != nil {
		t.Fatalf("Get playlist: %v", err)
	}
	env = parseEnvelope(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Get playlist failed: %d - %s", resp.StatusCode, env.Message)
	}
	var detail struct {
		ID         int64         `json:"id"`
		Name       string        `json:"name"`
		VideoCount int64         `json:"video_count"`
		Videos     []interface{} `json:"videos"`
	}
	decodeData(t, env, &detail)
	if detail.Name != "watch later" {
		t.Errorf("name = %q, want %q", detail.Name, "watch later")
	}
	if detail.VideoCount != int64(len(detail.Videos)) {
		t.Errorf("video_count = %d, but %d videos embedded", detail.VideoCount, len(detail.Videos))
	}

	// Per-user listing includes the new playlist
	resp, err = newClient().get(fmt.Sprintf("/users/%d/playlists", account.ID))
	if err != nil {
		t.Fatalf("List playlists: %v", err)
	}
	env = parseEnvelope(t, resp)
	var playlists []struct {
		ID int64 `json:"id"`
	}
	decodeData(t, env, &playlists)
	if len(playlists) != 1 || playlists[0].ID != playlist.ID {
		t.Errorf("playlists = %+v, want one entry with ID=%d", playlists, playlist.ID)
	}

	// Cleanup
	resp, err = client.delete(fmt.Sprintf("/playlists/%d", playlist.ID))
	if err != nil {
		t.Fatalf("Delete playlist: %v", err)
	}
	env = parseEnvelope(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Delete playlist failed: %d - %s", resp.StatusCode, env.Message)
	}

	t.Log("✓ Playlist lifecycle test passed")
}
