package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"reviewtogithub/config"
	"reviewtogithub/models"
	"reviewtogithub/utils"
)

// Materializer はレビュー指摘事項をイシューJSONファイルに書き出します
type Materializer struct {
	config *config.Config
}

// NewMaterializer は新しいMaterializerを作成します
func NewMaterializer(cfg *config.Config) *Materializer {
	return &Materializer{
		config: cfg,
	}
}

// IssueFilename はイシューのファイル名を組み立てます（例: phase1-issue01.json）
func IssueFilename(phase string, number int) string {
	return fmt.Sprintf("phase%s-issue%02d.json", phase, number)
}

// BuildPayload は指摘事項から送信用ペイロードを組み立てます。
// 本文末尾にメタデータを付加し、フェーズ3以降はレビュー文書への参照も付加します。
func BuildPayload(def models.IssueDefinition) models.IssuePayload {
	var b strings.Builder
	b.WriteString(def.Body)
	b.WriteString("\n\n---\n\n**Metadata:**\n")
	b.WriteString(fmt.Sprintf("- **Effort:** %s\n", def.Effort))
	b.WriteString(fmt.Sprintf("- **Dependencies:** %s\n", def.Dependencies))

	if n, err := strconv.Atoi(def.Phase); err == nil && n >= 3 {
		b.WriteString("\n## Reference\n\n")
		b.WriteString(fmt.Sprintf("- `ARCHITECTURE_REVIEW.md` - Issue #%d\n", def.Number))
		b.WriteString(fmt.Sprintf("- `REFACTORING_ROADMAP.md` - Phase %s\n", def.Phase))
	}

	return models.IssuePayload{
		Title:  def.Title,
		Body:   b.String(),
		Labels: def.Labels,
	}
}

// MaterializeAll は全指摘事項をJSONファイルとして書き出し、作成したパスを返します。
// 同じファイル名に解決される指摘事項があれば書き込み前にエラーを返します。
func (m *Materializer) MaterializeAll(defs []models.IssueDefinition) ([]string, error) {
	startTime := time.Now()
	defer utils.TrackTime(startTime, "イシューファイル書き出し")

	if len(defs) == 0 {
		return nil, fmt.Errorf("書き出す指摘事項がありません")
	}

	// ファイル名の衝突を書き込み前に検出する
	seen := make(map[string]int, len(defs))
	for _, def := range defs {
		filename := IssueFilename(def.Phase, def.Number)
		if prev, ok := seen[filename]; ok {
			return nil, fmt.Errorf("ファイル名が衝突しています: %s (issue #%d と #%d)", filename, prev, def.Number)
		}
		seen[filename] = def.Number
	}

	if err := os.MkdirAll(m.config.IssuesDir, 0755); err != nil {
		return nil, fmt.Errorf("ディレクトリ作成エラー: %w", err)
	}

	utils.LogInfo("イシューファイルを '%s' に書き出します: %d 件", m.config.IssuesDir, len(defs))

	paths := make([]string, 0, len(defs))
	for _, def := range defs {
		filename := IssueFilename(def.Phase, def.Number)
		path := filepath.Join(m.config.IssuesDir, filename)

		data, err := encodePayload(BuildPayload(def))
		if err != nil {
			return nil, fmt.Errorf("JSONエンコードエラー %s: %w", filename, err)
		}

		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("ファイル書き込みエラー %s: %w", filename, err)
		}

		utils.LogInfo("作成しました: %s", path)
		paths = append(paths, path)
	}

	utils.LogInfo("イシューファイルの書き出しが完了しました: %d 件", len(paths))
	return paths, nil
}

// encodePayload はペイロードを2スペースインデントのJSONに変換します。
// Markdown本文の < > & をエスケープさせないためEncoderを使います。
func encodePayload(payload models.IssuePayload) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
