// Package main はToomiサーバーコマンドの実装です
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"toomi/internal/camera"
	"toomi/internal/config"
	"toomi/internal/server"
)

func main() {
	// コマンドラインオプション
	var (
		host   = flag.String("host", "", "サーバーのホスト (デフォルト: 0.0.0.0)")
		port   = flag.Int("port", 0, "サーバーのポート (デフォルト: 8080)")
		device = flag.Int("device", -1, "カメラのデバイス番号 (デフォルト: 0)")
		width  = flag.Int("width", 0, "キャプチャ幅 (デフォルト: 1920)")
		height = flag.Int("height", 0, "キャプチャ高さ (デフォルト: 1080)")
		help   = flag.Bool("help", false, "ヘルプを表示")
	)

	flag.Parse()

	// ヘルプ表示
	if *help {
		fmt.Println("Toomi")
		fmt.Println()
		fmt.Println("使用方法:")
		fmt.Println("  server [オプション]")
		fmt.Println()
		fmt.Println("オプション:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	// 設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	// コマンドラインオプションで設定を上書き
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *device >= 0 {
		cfg.Camera.DeviceIndex = *device
	}
	if *width != 0 {
		cfg.Camera.Width = *width
	}
	if *height != 0 {
		cfg.Camera.Height = *height
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("設定の検証に失敗しました: %v", err)
	}

	// カメラマネージャーとサーバーを作成
	cam := camera.NewManager(cfg.Camera, camera.OpenGoCV)
	srv := server.New(cfg, cam)

	// コンテキストを作成
	ctx := context.Background()

	// サーバーを起動
	log.Printf("Toomi サーバーを起動します: %s", cfg.ServerAddress())
	if err := srv.Start(ctx); err != nil {
		log.Fatalf("サーバーの起動に失敗しました: %v", err)
	}
}
