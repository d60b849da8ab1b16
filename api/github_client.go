package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"reviewtogithub/config"
	"reviewtogithub/models"
)

// GitHubClient はGitHub APIとのやり取りを処理します
type GitHubClient struct {
	config *config.Config
	client *http.Client
}

// NewGitHubClient は新しいGitHubクライアントを作成します
func NewGitHubClient(cfg *config.Config) *GitHubClient {
	return &GitHubClient{
		config: cfg,
		client: &http.Client{},
	}
}

// APIError はGitHub APIが返したエラーレスポンスを表します
type APIError struct {
	StatusCode int
	Message    string
}

// Error はトラッカーが返したメッセージをそのまま返します
// (結果レポートにAPIのメッセージを原文のまま載せるため)
func (e *APIError) Error() string {
	return e.Message
}

// setHeaders はGitHub API共通のリクエストヘッダーを設定します
func (g *GitHubClient) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "token "+g.config.GitHubToken)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("Content-Type", "application/json")
}

// CheckAuth はGitHub認証をチェックします
func (g *GitHubClient) CheckAuth() error {
	url := fmt.Sprintf("%s/user", g.config.GitHubAPIURL)

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return fmt.Errorf("リクエスト作成エラー: %w", err)
	}

	g.setHeaders(req)

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("リクエスト送信エラー: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    extractMessage(body),
		}
	}

	return nil
}

// CreateIssue はGitHubイシューを作成します
// HTTP 201以外のレスポンスは *APIError として返します
func (g *GitHubClient) CreateIssue(payload models.IssuePayload) (*models.CreatedIssue, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/issues", g.config.GitHubAPIURL, g.config.GitHubOwner, g.config.GitHubRepo)

	// ラベルが空でないことを確認
	if payload.Labels == nil {
		payload.Labels = []string{}
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("JSONエンコードエラー: %w", err)
	}

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("リクエスト作成エラー: %w", err)
	}

	g.setHeaders(req)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("リクエスト送信エラー: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    extractMessage(body),
		}
	}

	var created models.CreatedIssue
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("レスポンス解析エラー: %w", err)
	}

	if created.Number == 0 {
		return nil, fmt.Errorf("イシュー番号が見つかりません")
	}

	return &created, nil
}

// extractMessage はエラーレスポンスから人間可読なメッセージを取り出します
// GitHubのmessageフィールドを優先し、なければ生のレスポンス本文を使います
func extractMessage(body []byte) string {
	var errResp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		return errResp.Message
	}

	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}

	return "不明なエラー"
}
