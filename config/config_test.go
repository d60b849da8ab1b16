package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearGitHubEnv は関連する環境変数をテスト中だけ空にします
func clearGitHubEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"GITHUB_TOKEN", "GITHUB_OWNER", "GITHUB_REPO", "GITHUB_API_URL",
		"ISSUES_DIR", "CATALOG_FILE", "REQUEST_INTERVAL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearGitHubEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Empty(t, cfg.GitHubToken)
	assert.Equal(t, "krisapplegate", cfg.GitHubOwner)
	assert.Equal(t, "kiro-simple-tracker", cfg.GitHubRepo)
	assert.Equal(t, "https://api.github.com", cfg.GitHubAPIURL)
	assert.Equal(t, "github-issues", cfg.IssuesDir)
	assert.Empty(t, cfg.CatalogFile)
	assert.Equal(t, 1, cfg.RequestInterval)
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearGitHubEnv(t)
	t.Setenv("GITHUB_TOKEN", "ghp_example")
	t.Setenv("GITHUB_OWNER", "someone")
	t.Setenv("GITHUB_REPO", "another-repo")
	t.Setenv("GITHUB_API_URL", "https://github.example.com/api/v3/")
	t.Setenv("ISSUES_DIR", "out/issues")
	t.Setenv("CATALOG_FILE", "findings.yaml")
	t.Setenv("REQUEST_INTERVAL", "3")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "ghp_example", cfg.GitHubToken)
	assert.Equal(t, "someone", cfg.GitHubOwner)
	assert.Equal(t, "another-repo", cfg.GitHubRepo)
	// 末尾のスラッシュは取り除かれること
	assert.Equal(t, "https://github.example.com/api/v3", cfg.GitHubAPIURL)
	assert.Equal(t, "out/issues", cfg.IssuesDir)
	assert.Equal(t, "findings.yaml", cfg.CatalogFile)
	assert.Equal(t, 3, cfg.RequestInterval)
}

func TestLoadConfig_MalformedInterval(t *testing.T) {
	clearGitHubEnv(t)
	t.Setenv("REQUEST_INTERVAL", "abc")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	// 数値として解釈できない場合はデフォルト値を使うこと
	assert.Equal(t, 1, cfg.RequestInterval)
}
