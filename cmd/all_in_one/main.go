package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"reviewtogithub/api"
	"reviewtogithub/catalog"
	"reviewtogithub/config"
	"reviewtogithub/models"
	"reviewtogithub/services"
	"reviewtogithub/utils"
)

func main() {
	// コマンドラインフラグの定義
	generateOnly := flag.Bool("generate-only", false, "イシューファイルの生成のみを実行する")
	uploadOnly := flag.Bool("upload-only", false, "GitHubへの一括送信のみを実行する")
	issuesDir := flag.String("dir", "", "イシューJSONのディレクトリ（指定しない場合は環境変数から取得）")
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

	utils.LogInfo("アーキテクチャレビュー → GitHubイシュー登録ツール (v1.0.0)")

	// 全処理または生成のみ
	if !*uploadOnly {
		utils.LogInfo("イシューファイルの生成を開始します")
		if err := runGenerate(cfg); err != nil {
			utils.LogError("イシューファイル生成エラー: %v", err)
			os.Exit(1)
		}
	}

	// 生成のみの場合はここで終了
	if *generateOnly {
		elapsed := time.Since(startTime)
		utils.LogInfo("イシューファイルの生成が完了しました。合計実行時間: %s", elapsed)
		return
	}

	// GitHubへの一括送信
	utils.LogInfo("GitHubへの一括送信を開始します")
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

	// 合計実行時間の表示
	elapsed := time.Since(startTime)
	utils.LogInfo("全処理が完了しました: 成功=%d, 失敗=%d。合計実行時間: %s",
		report.CreatedCount(), report.FailedCount(), elapsed)

	// 1件でも失敗があれば異常終了
	if report.FailedCount() > 0 {
		os.Exit(1)
	}
}

// runGenerate はカタログを読み込みイシューファイルを書き出します
func runGenerate(cfg *config.Config) error {
	var defs []models.IssueDefinition
	var err error

	if cfg.CatalogFile != "" {
		defs, err = catalog.LoadFile(cfg.CatalogFile)
	} else {
		defs, err = catalog.Load()
	}
	if err != nil {
		return fmt.Errorf("カタログ読み込みエラー: %w", err)
	}

	materializer := services.NewMaterializer(cfg)
	if _, err := materializer.MaterializeAll(defs); err != nil {
		return err
	}

	return nil
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
アーキテクチャレビュー → GitHubイシュー登録ツール

使用方法:
  %s [オプション]

オプション:
  -generate-only      イシューファイルの生成のみを実行する
  -upload-only        GitHubへの一括送信のみを実行する
  -dir ディレクトリ    イシューJSONのディレクトリ
  -help               このヘルプを表示する

環境変数:
  GITHUB_TOKEN        GitHub APIトークン (送信時は必須)
  GITHUB_OWNER        リポジトリのオーナー (デフォルト: krisapplegate)
  GITHUB_REPO         リポジトリ名 (デフォルト: kiro-simple-tracker)
  GITHUB_API_URL      GitHub APIのベースURL (デフォルト: https://api.github.com)
  ISSUES_DIR          イシューJSONのディレクトリ (デフォルト: github-issues)
  CATALOG_FILE        指摘事項カタログYAMLのパス (デフォルト: 組み込みカタログ)
  REQUEST_INTERVAL    リクエスト間の待機秒数 (デフォルト: 1)

例:
  # 生成と送信をまとめて実行
  %s

  # イシューファイルの生成のみを実行
  %s -generate-only

  # 生成済みファイルの送信のみを実行
  %s -upload-only
`, os.Args[0], os.Args[0], os.Args[0], os.Args[0])
}
