package main

import (
	"flag"
	"fmt"
	"os"

	"reviewtogithub/api"
	"reviewtogithub/config"
	"reviewtogithub/utils"
)

func main() {
	// ヘルプフラグの定義
	help := flag.Bool("help", false, "ヘルプを表示する")

	// フラグのパース
	flag.Parse()

	// ヘルプフラグが指定された場合はヘルプを表示
	if *help {
		printHelp()
		return
	}

	utils.LogInfo("GitHub認証確認ツール")

	// 設定の読み込み
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.LogError("設定の読み込みに失敗しました: %v", err)
		os.Exit(1)
	}

	// トークンの確認
	if cfg.GitHubToken == "" {
		utils.LogError("GITHUB_TOKENが設定されていません")
		utils.LogError("GitHubのトークンを環境変数に設定してください。")
		os.Exit(1)
	}

	// GitHubクライアントの初期化
	client := api.NewGitHubClient(cfg)

	// 認証チェック
	utils.LogInfo("GitHub APIの認証を確認しています...")
	err = client.CheckAuth()
	if err != nil {
		utils.LogError("GitHub認証エラー: %v", err)
		utils.LogError("認証情報を確認してください。")
		os.Exit(1)
	}

	utils.LogInfo("GitHub認証成功！ 接続先: %s", cfg.GitHubAPIURL)
	utils.LogInfo("送信先リポジトリ: %s/%s", cfg.GitHubOwner, cfg.GitHubRepo)
}

// ヘルプメッセージを表示する関数
func printHelp() {
	fmt.Printf(`
GitHub認証確認ツール

使用方法:
  %s [オプション]

オプション:
  -help               このヘルプを表示する

環境変数:
  GITHUB_TOKEN        GitHub APIトークン (必須)
  GITHUB_API_URL      GitHub APIのベースURL (デフォルト: https://api.github.com)

説明:
  このツールはGitHub APIのトークンが正しく設定されているかを確認します。
  認証が成功すれば、bulk_create ツールも正常に動作する可能性が高いです。
`, os.Args[0])
}
