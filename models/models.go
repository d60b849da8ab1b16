package models

// IssueDefinition はアーキテクチャレビューの1つの指摘事項を表します
type IssueDefinition struct {
	Phase        string   `yaml:"phase"`        // フェーズ識別子 ("1"〜"4")
	Number       int      `yaml:"number"`       // 連番 (ファイル名と送信順序の決定に使用)
	Title        string   `yaml:"title"`
	Labels       []string `yaml:"labels"`
	Effort       string   `yaml:"effort"`       // 工数見積もり (本文のMetadataに埋め込む)
	Dependencies string   `yaml:"dependencies"` // 依存関係の説明 (本文のMetadataに埋め込む)
	Body         string   `yaml:"body"`
}

// IssuePayload はGitHubイシュー作成APIに送信するペイロードです
type IssuePayload struct {
	Title  string   `json:"title"`
	Body   string   `json:"body"`
	Labels []string `json:"labels"`
}

// CreatedIssue はGitHub APIが返す作成済みイシューの情報です
type CreatedIssue struct {
	Number  int    `json:"number"`   // 採番されたイシュー番号
	HTMLURL string `json:"html_url"` // イシューの閲覧用URL
}

// IssueFile はディスク上で発見された1つのイシューファイルを表します
type IssueFile struct {
	Filename string       // ファイル名 (例: phase1-issue01.json)
	Path     string       // フルパス
	Phase    string       // ファイル名から抽出したフェーズ
	Number   int          // ファイル名から抽出した連番
	Payload  IssuePayload // 解析済みのペイロード
}

// SubmissionResult は1件のイシュー送信の結果を表します
// Successがtrueの場合はIssueNumberとIssueURLが、
// falseの場合はErrorMessageが設定されます
type SubmissionResult struct {
	Filename     string
	Success      bool
	IssueNumber  int
	IssueURL     string
	ErrorMessage string
}

// SubmissionReport は一括送信全体の集計結果です
type SubmissionReport struct {
	Total   int                // 試行した件数
	Results []SubmissionResult // 送信順の結果リスト
}

// CreatedCount は作成に成功した件数を返します
func (r *SubmissionReport) CreatedCount() int {
	count := 0
	for _, result := range r.Results {
		if result.Success {
			count++
		}
	}
	return count
}

// FailedCount は作成に失敗した件数を返します
func (r *SubmissionReport) FailedCount() int {
	return r.Total - r.CreatedCount()
}
