package services

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"reviewtogithub/api"
	"reviewtogithub/config"
	"reviewtogithub/models"
	"reviewtogithub/utils"
)

// 実行を中断すべき状態を区別するためのエラー値
var (
	// ErrIssuesDirNotFound はイシューディレクトリが存在しない場合に返されます
	ErrIssuesDirNotFound = errors.New("イシューディレクトリが見つかりません")
	// ErrTokenNotSet はGITHUB_TOKENが未設定の場合に返されます
	ErrTokenNotSet = errors.New("GITHUB_TOKENが設定されていません")
	// ErrCancelled はオペレーターが確認プロンプトで中止した場合に返されます
	ErrCancelled = errors.New("オペレーターにより中止されました")
)

// issueFilePattern は送信対象ファイル名の形式です（例: phase1-issue01.json）
var issueFilePattern = regexp.MustCompile(`^phase(\d+)-issue(\d+)\.json$`)

// ConfirmFunc は送信前の確認プロンプトへの応答を返します
type ConfirmFunc func(prompt string) bool

// StdinConfirm は標準入力から確認を読み取ります。"y"（大文字小文字を区別しない）のみ続行します。
func StdinConfirm(prompt string) bool {
	fmt.Print(prompt)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y"
}

// Submitter はイシューJSONファイルをGitHubへ一括送信します
type Submitter struct {
	config   *config.Config
	client   *api.GitHubClient
	confirm  ConfirmFunc
	interval time.Duration
	out      io.Writer
}

// NewSubmitter は新しいSubmitterを作成します
func NewSubmitter(cfg *config.Config, client *api.GitHubClient) *Submitter {
	return &Submitter{
		config:   cfg,
		client:   client,
		confirm:  StdinConfirm,
		interval: time.Duration(cfg.RequestInterval) * time.Second,
		out:      os.Stdout,
	}
}

// DiscoverIssueFiles はイシューディレクトリから送信対象ファイルを収集します。
// ファイル名の形式に一致しないものは無視し、(フェーズ, 番号) の昇順で返します。
// フェーズは数値として比較します（phase10 は phase2 の後）。
// 不正なJSONを含むファイルがあれば送信前にエラーを返します。
func (s *Submitter) DiscoverIssueFiles() ([]models.IssueFile, error) {
	entries, err := os.ReadDir(s.config.IssuesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrIssuesDirNotFound, s.config.IssuesDir)
		}
		return nil, fmt.Errorf("ディレクトリ読み取りエラー: %w", err)
	}

	files := make([]models.IssueFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		m := issueFilePattern.FindStringSubmatch(entry.Name())
		if m == nil {
			// 命名規則に合わないJSONは送信対象から外す
			if strings.HasSuffix(entry.Name(), ".json") {
				utils.LogWarn("対象外のファイルをスキップします: %s", entry.Name())
			}
			continue
		}

		number, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}

		path := filepath.Join(s.config.IssuesDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("ファイル読み込みエラー %s: %w", entry.Name(), err)
		}

		var payload models.IssuePayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("JSONパースエラー %s: %w", entry.Name(), err)
		}

		files = append(files, models.IssueFile{
			Filename: entry.Name(),
			Path:     path,
			Phase:    m[1],
			Number:   number,
			Payload:  payload,
		})
	}

	sort.Slice(files, func(i, j int) bool {
		pi, pj := phaseOrdinal(files[i].Phase), phaseOrdinal(files[j].Phase)
		if pi != pj {
			return pi < pj
		}
		return files[i].Number < files[j].Number
	})

	return files, nil
}

// phaseOrdinal はフェーズ文字列を比較用の数値に変換します
func phaseOrdinal(phase string) int {
	n, err := strconv.Atoi(phase)
	if err != nil {
		return 0
	}
	return n
}

// Run は一括送信の全工程を実行し、送信結果のレポートを返します。
// ディレクトリ欠落・トークン未設定・オペレーター中止はエラーで区別されます。
// 個々のイシューの作成失敗はエラーではなくレポートに記録されます。
func (s *Submitter) Run() (*models.SubmissionReport, error) {
	utils.Banner(s.out, "GitHub Bulk Issue Creator", "Architecture Review - Location Tracker")
	fmt.Fprintln(s.out)

	if _, err := os.Stat(s.config.IssuesDir); os.IsNotExist(err) {
		fmt.Fprintf(s.out, "❌ Error: %s directory not found\n", s.config.IssuesDir)
		return nil, fmt.Errorf("%w: %s", ErrIssuesDirNotFound, s.config.IssuesDir)
	}

	if s.config.GitHubToken == "" {
		return nil, ErrTokenNotSet
	}
	fmt.Fprintln(s.out, "✓ GitHub token found")
	fmt.Fprintln(s.out)

	files, err := s.DiscoverIssueFiles()
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(s.out, "Found %d issue files\n", len(files))
	fmt.Fprintln(s.out)

	fmt.Fprintln(s.out, "This will create the following issues:")
	for _, f := range files {
		fmt.Fprintf(s.out, "  - %s: %s\n", f.Filename, f.Payload.Title)
	}
	fmt.Fprintln(s.out)

	if !s.confirm("Proceed with creating these issues? [y/N]: ") {
		fmt.Fprintln(s.out, "Cancelled.")
		return nil, ErrCancelled
	}
	fmt.Fprintln(s.out)

	report := &models.SubmissionReport{
		Total:   len(files),
		Results: make([]models.SubmissionResult, 0, len(files)),
	}

	fmt.Fprintln(s.out, "Creating issues...")
	utils.Separator(s.out)

	for _, f := range files {
		fmt.Fprintf(s.out, "Creating: %s... ", f.Filename)

		created, err := s.client.CreateIssue(f.Payload)
		if err != nil {
			fmt.Fprintln(s.out, "✗ Failed")
			fmt.Fprintf(s.out, "  Error: %s\n", err.Error())
			report.Results = append(report.Results, models.SubmissionResult{
				Filename:     f.Filename,
				Success:      false,
				ErrorMessage: err.Error(),
			})
		} else {
			fmt.Fprintf(s.out, "✓ #%d\n", created.Number)
			fmt.Fprintf(s.out, "  URL: %s\n", created.HTMLURL)
			report.Results = append(report.Results, models.SubmissionResult{
				Filename:    f.Filename,
				Success:     true,
				IssueNumber: created.Number,
				IssueURL:    created.HTMLURL,
			})
		}

		// レート制限対策として各リクエストの後に待機する
		if s.interval > 0 {
			time.Sleep(s.interval)
		}
	}

	s.printSummary(report)
	return report, nil
}

// printSummary は送信結果のサマリーを出力します
func (s *Submitter) printSummary(report *models.SubmissionReport) {
	fmt.Fprintln(s.out)
	utils.Banner(s.out, "Summary")
	fmt.Fprintf(s.out, "Total issues: %d\n", report.Total)
	fmt.Fprintf(s.out, "Created:      %d ✓\n", report.CreatedCount())
	fmt.Fprintf(s.out, "Failed:       %d ✗\n", report.FailedCount())
	fmt.Fprintln(s.out)

	created := make([]models.SubmissionResult, 0, len(report.Results))
	failed := make([]models.SubmissionResult, 0)
	for _, r := range report.Results {
		if r.Success {
			created = append(created, r)
		} else {
			failed = append(failed, r)
		}
	}

	if len(created) > 0 {
		fmt.Fprintln(s.out, "Successfully created issues:")
		for _, r := range created {
			fmt.Fprintf(s.out, "  #%d: %s\n", r.IssueNumber, r.Filename)
		}
		fmt.Fprintln(s.out)
		fmt.Fprintf(s.out, "View all issues: https://github.com/%s/%s/issues\n",
			s.config.GitHubOwner, s.config.GitHubRepo)
	}

	if len(failed) > 0 {
		fmt.Fprintln(s.out)
		fmt.Fprintln(s.out, "Failed issues:")
		for _, r := range failed {
			fmt.Fprintf(s.out, "  %s: %s\n", r.Filename, r.ErrorMessage)
		}
	}

	if len(failed) == 0 {
		fmt.Fprintln(s.out)
		fmt.Fprintln(s.out, "✓ All issues created successfully!")
	}
}
