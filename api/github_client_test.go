package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewtogithub/config"
	"reviewtogithub/models"
)

func testConfig(serverURL string) *config.Config {
	return &config.Config{
		GitHubToken:  "test-token",
		GitHubOwner:  "krisapplegate",
		GitHubRepo:   "kiro-simple-tracker",
		GitHubAPIURL: serverURL,
	}
}

func TestGitHubClient_CreateIssue_Success(t *testing.T) {
	var gotMethod, gotPath, gotAuth, gotAccept, gotContentType string
	var gotBody models.IssuePayload

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		gotContentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"number": 100, "html_url": "https://github.com/krisapplegate/kiro-simple-tracker/issues/100"}`)
	}))
	defer server.Close()

	client := NewGitHubClient(testConfig(server.URL))
	created, err := client.CreateIssue(models.IssuePayload{
		Title:  "[CRITICAL] Refactor Monolithic Server Architecture",
		Body:   "## Problem\n\nDetails here.",
		Labels: []string{"critical", "phase-1"},
	})

	require.NoError(t, err)
	assert.Equal(t, 100, created.Number)
	assert.Equal(t, "https://github.com/krisapplegate/kiro-simple-tracker/issues/100", created.HTMLURL)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/repos/krisapplegate/kiro-simple-tracker/issues", gotPath)
	assert.Equal(t, "token test-token", gotAuth)
	assert.Equal(t, "application/vnd.github.v3+json", gotAccept)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "[CRITICAL] Refactor Monolithic Server Architecture", gotBody.Title)
	assert.Equal(t, []string{"critical", "phase-1"}, gotBody.Labels)
}

func TestGitHubClient_CreateIssue_NilLabels(t *testing.T) {
	// ラベル未設定でも labels: [] として送信されること
	var rawBody string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		rawBody = string(data)

		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"number": 1, "html_url": "https://github.com/krisapplegate/kiro-simple-tracker/issues/1"}`)
	}))
	defer server.Close()

	client := NewGitHubClient(testConfig(server.URL))
	_, err := client.CreateIssue(models.IssuePayload{Title: "t", Body: "b"})

	require.NoError(t, err)
	assert.Contains(t, rawBody, `"labels":[]`)
	assert.NotContains(t, rawBody, `"labels":null`)
}

func TestGitHubClient_CreateIssue_APIError(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		wantMsg    string
	}{
		{
			name:       "messageフィールドを持つJSONレスポンス",
			statusCode: http.StatusUnprocessableEntity,
			body:       `{"message": "Validation Failed", "errors": [{"code": "already_exists"}]}`,
			wantMsg:    "Validation Failed",
		},
		{
			name:       "JSONでないレスポンス本文",
			statusCode: http.StatusBadGateway,
			body:       "Bad Gateway\n",
			wantMsg:    "Bad Gateway",
		},
		{
			name:       "空のレスポンス本文",
			statusCode: http.StatusInternalServerError,
			body:       "",
			wantMsg:    "不明なエラー",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			client := NewGitHubClient(testConfig(server.URL))
			created, err := client.CreateIssue(models.IssuePayload{Title: "t", Body: "b"})

			require.Error(t, err)
			assert.Nil(t, created)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.statusCode, apiErr.StatusCode)
			assert.Equal(t, tt.wantMsg, apiErr.Error())
		})
	}
}

func TestGitHubClient_CreateIssue_MissingNumber(t *testing.T) {
	// 201でもイシュー番号のないレスポンスはエラーになること
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"html_url": "https://github.com/krisapplegate/kiro-simple-tracker/issues/1"}`)
	}))
	defer server.Close()

	client := NewGitHubClient(testConfig(server.URL))
	created, err := client.CreateIssue(models.IssuePayload{Title: "t", Body: "b"})

	require.Error(t, err)
	assert.Nil(t, created)
}

func TestGitHubClient_CheckAuth_Success(t *testing.T) {
	var gotPath, gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `{"login": "krisapplegate"}`)
	}))
	defer server.Close()

	client := NewGitHubClient(testConfig(server.URL))
	err := client.CheckAuth()

	require.NoError(t, err)
	assert.Equal(t, "/user", gotPath)
	assert.Equal(t, "token test-token", gotAuth)
}

func TestGitHubClient_CheckAuth_BadCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message": "Bad credentials"}`)
	}))
	defer server.Close()

	client := NewGitHubClient(testConfig(server.URL))
	err := client.CheckAuth()

	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Bad credentials", apiErr.Message)
}
