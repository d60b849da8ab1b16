package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config はアプリケーション全体の設定を保持します
type Config struct {
	// GitHub API設定
	GitHubToken  string
	GitHubOwner  string
	GitHubRepo   string
	GitHubAPIURL string

	// ファイルパス
	IssuesDir   string
	CatalogFile string // 空の場合は組み込みカタログを使用

	// リクエスト間隔 (秒)
	RequestInterval int
}

// LoadConfig は環境変数から設定を読み込みます
func LoadConfig() (*Config, error) {
	// .envファイルを読み込む
	_ = godotenv.Load()

	config := &Config{
		GitHubToken:     os.Getenv("GITHUB_TOKEN"),
		GitHubOwner:     getEnvWithDefault("GITHUB_OWNER", "krisapplegate"),
		GitHubRepo:      getEnvWithDefault("GITHUB_REPO", "kiro-simple-tracker"),
		GitHubAPIURL:    strings.TrimRight(getEnvWithDefault("GITHUB_API_URL", "https://api.github.com"), "/"),
		IssuesDir:       getEnvWithDefault("ISSUES_DIR", "github-issues"),
		CatalogFile:     os.Getenv("CATALOG_FILE"),
		RequestInterval: getEnvAsIntWithDefault("REQUEST_INTERVAL", 1),
	}

	return config, nil
}

// デフォルト値付きで環境変数を取得
func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// デフォルト値付きで環境変数を整数として取得
func getEnvAsIntWithDefault(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
