package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"reviewtogithub/catalog"
	"reviewtogithub/config"
	"reviewtogithub/models"
	"reviewtogithub/services"
	"reviewtogithub/utils"
)

func main() {
	// コマンドラインフラグの定義
	catalogFile := flag.String("catalog", "", "指摘事項カタログYAMLのパス（指定しない場合は組み込みカタログを使用）")
	issuesDir := flag.String("dir", "", "イシューJSONの出力先ディレクトリ（指定しない場合は環境変数から取得）")
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

	utils.LogInfo("GitHubイシューファイル生成ツール")

	// 設定の読み込み
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.LogError("設定の読み込みに失敗しました: %v", err)
		os.Exit(1)
	}

	// コマンドラインでパスが指定された場合、設定を上書き
	if *catalogFile != "" {
		cfg.CatalogFile = *catalogFile
		utils.LogInfo("カタログファイルを指定: %s", cfg.CatalogFile)
	}

	if *issuesDir != "" {
		cfg.IssuesDir = *issuesDir
		utils.LogInfo("出力先ディレクトリを指定: %s", cfg.IssuesDir)
	}

	// カタログの読み込み
	var defs []models.IssueDefinition
	if cfg.CatalogFile != "" {
		utils.LogInfo("カタログを読み込んでいます: %s", cfg.CatalogFile)
		defs, err = catalog.LoadFile(cfg.CatalogFile)
	} else {
		utils.LogInfo("組み込みカタログを読み込んでいます...")
		defs, err = catalog.Load()
	}
	if err != nil {
		utils.LogError("カタログ読み込みエラー: %v", err)
		os.Exit(1)
	}
	utils.LogInfo("カタログを読み込みました: %d 件の指摘事項", len(defs))

	// イシューファイルの書き出し
	materializer := services.NewMaterializer(cfg)
	paths, err := materializer.MaterializeAll(defs)
	if err != nil {
		utils.LogError("イシューファイル生成エラー: %v", err)
		os.Exit(1)
	}

	// 処理時間の表示
	elapsed := time.Since(startTime)
	utils.LogInfo("イシューファイルの生成が完了しました: %d 件。処理時間: %s", len(paths), elapsed)
}

// ヘルプメッセージを表示する関数
func printHelp() {
	fmt.Printf(`
GitHubイシューファイル生成ツール

使用方法:
  %s [オプション]

オプション:
  -catalog ファイル    指摘事項カタログYAMLのパス
  -dir ディレクトリ    イシューJSONの出力先ディレクトリ
  -help               このヘルプを表示する

環境変数:
  CATALOG_FILE        指摘事項カタログYAMLのパス (デフォルト: 組み込みカタログ)
  ISSUES_DIR          イシューJSONの出力先ディレクトリ (デフォルト: github-issues)

説明:
  このツールはアーキテクチャレビューの指摘事項カタログから
  GitHubイシュー用のJSONファイル (phase{P}-issue{NN}.json) を生成します。

  生成されたJSONファイルは、次のステップである bulk_create ツールの
  入力として使用されます。
`, os.Args[0])
}
