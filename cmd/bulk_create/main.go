package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"reviewtogithub/api"
	"reviewtogithub/config"
	"reviewtogithub/services"
	"reviewtogithub/utils"
)

func main() {
	// コマンドラインフラグの定義
	issuesDir := flag.String("dir", "", "イシューJSONのディレクトリ（指定しない場合は環境変数から取得）")
	interval := flag.Int("interval", -1, "リクエスト間の待機秒数（負の場合は設定値を使用）")
	help := flag.Bool("help", false, "ヘルプを表示する")

	// フラグのパース
	flag.Parse()

	// ヘルプフラグが指定された場合はヘルプを表示
	if *help {
		printHelp()
		return
	}

	// 開始時間の記録
	startTime := time.Now()

	// 設定の読み込み
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.LogError("設定の読み込みに失敗しました: %v", err)
		os.Exit(1)
	}

	// コマンドラインで指定された場合、設定を上書き
	if *issuesDir != "" {
		cfg.IssuesDir = *issuesDir
	}

	if *interval >= 0 {
		cfg.RequestInterval = *interval
	}

	// 一括送信の実行
	client := api.NewGitHubClient(cfg)
	submitter := services.NewSubmitter(cfg, client)

	report, err := submitter.Run()
	if err != nil {
		// オペレーターによる中止は正常終了
		if errors.Is(err, services.ErrCancelled) {
			return
		}

		if errors.Is(err, services.ErrTokenNotSet) {
			printTokenGuidance()
			os.Exit(1)
		}

		utils.LogError("一括送信に失敗しました: %v", err)
		os.Exit(1)
	}

	// 処理時間の表示
	elapsed := time.Since(startTime)
	utils.LogInfo("一括送信が完了しました: 成功=%d, 失敗=%d。処理時間: %s",
		report.CreatedCount(), report.FailedCount(), elapsed)

	// 1件でも失敗があれば異常終了
	if report.FailedCount() > 0 {
		os.Exit(1)
	}
}

// トークン未設定時の対処手順を表示する関数
func printTokenGuidance() {
	fmt.Println("❌ Error: GITHUB_TOKEN environment variable not set")
	fmt.Println()
	fmt.Println("To fix this:")
	fmt.Println("  1. Go to https://github.com/settings/tokens")
	fmt.Println("  2. Generate new token (classic)")
	fmt.Println("  3. Select 'repo' scope")
	fmt.Println("  4. Copy the token")
	fmt.Println("  5. Run: export GITHUB_TOKEN='your_token_here'")
	fmt.Println()
}

// ヘルプメッセージを表示する関数
func printHelp() {
	fmt.Printf(`
GitHubイシュー一括作成ツール

使用方法:
  %s [オプション]

オプション:
  -dir ディレクトリ    イシューJSONのディレクトリ
  -interval 秒        リクエスト間の待機秒数
  -help               このヘルプを表示する

環境変数:
  GITHUB_TOKEN        GitHub APIトークン (必須)
  GITHUB_OWNER        リポジトリのオーナー (デフォルト: krisapplegate)
  GITHUB_REPO         リポジトリ名 (デフォルト: kiro-simple-tracker)
  GITHUB_API_URL      GitHub APIのベースURL (デフォルト: https://api.github.com)
  ISSUES_DIR          イシューJSONのディレクトリ (デフォルト: github-issues)
  REQUEST_INTERVAL    リクエスト間の待機秒数 (デフォルト: 1)

説明:
  このツールはディレクトリ内のイシューJSONファイル (phase{P}-issue{NN}.json) を
  GitHubリポジトリへ一括送信します。

  送信前に対象イシューの一覧を表示し、オペレーターの確認を求めます。
  確認で中止した場合は何も送信せず正常終了します。

  GitHubのレート制限対策として、各リクエストの後に待機時間を挟みます。

終了コード:
  0  すべて成功、または確認プロンプトで中止
  1  1件以上の失敗、設定エラー、または認証エラー
`, os.Args[0])
}
