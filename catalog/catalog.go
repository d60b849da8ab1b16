package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"reviewtogithub/models"
)

// アーキテクチャレビューから起こしたイシュー定義の組み込みカタログ
//
//go:embed issues.yaml
var embeddedCatalog []byte

// catalogFile はカタログYAMLのトップレベル構造です
type catalogFile struct {
	Issues []models.IssueDefinition `yaml:"issues"`
}

// Load は組み込みのイシュー定義カタログを読み込みます
func Load() ([]models.IssueDefinition, error) {
	return parse(embeddedCatalog)
}

// LoadFile は外部のYAMLファイルからイシュー定義を読み込みます
// 検証内容は組み込みカタログと同じです
func LoadFile(path string) ([]models.IssueDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("カタログ読み込みエラー: %w", err)
	}
	return parse(data)
}

func parse(data []byte) ([]models.IssueDefinition, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("カタログ解析エラー: %w", err)
	}
	if err := validate(file.Issues); err != nil {
		return nil, err
	}
	return file.Issues, nil
}

// validate はイシュー定義の整合性を検証します
// (フェーズ, 連番) の組はバッチ全体で一意でなければなりません
func validate(issues []models.IssueDefinition) error {
	if len(issues) == 0 {
		return fmt.Errorf("カタログにイシュー定義がありません")
	}

	seen := make(map[string]bool, len(issues))
	for i, issue := range issues {
		if issue.Phase == "" {
			return fmt.Errorf("イシュー %d: フェーズが未設定です", i+1)
		}
		if issue.Number < 1 {
			return fmt.Errorf("イシュー %d: 連番は1以上である必要があります", i+1)
		}
		if issue.Title == "" {
			return fmt.Errorf("イシュー %d: タイトルが空です", i+1)
		}
		key := fmt.Sprintf("%s-%d", issue.Phase, issue.Number)
		if seen[key] {
			return fmt.Errorf("イシュー %d: (フェーズ %s, 連番 %d) が重複しています", i+1, issue.Phase, issue.Number)
		}
		seen[key] = true
	}
	return nil
}
