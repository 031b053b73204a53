package config

import (
	"fmt"
	"os"
	"time"
)

// Config はアプリケーション全体の設定を保持する構造体
type Config struct {
	Server ServerConfig
	Camera CameraConfig
}

// ServerConfig はHTTPサーバーの設定
type ServerConfig struct {
	Host string // リッスンするホスト
	Port int    // リッスンするポート番号

	// タイムアウト設定
	ReadTimeout  time.Duration // 読み込みタイムアウト
	WriteTimeout time.Duration // 書き込みタイムアウト
}

// CameraConfig はカメラデバイスの設定
// Loadで構築された後は変更しない
type CameraConfig struct {
	DeviceIndex int    // デバイス番号 (例: 0 = /dev/video0)
	Width       int    // 要求する画像幅
	Height      int    // 要求する画像高さ
	Backend     string // キャプチャバックエンド ("any", "v4l2", "gstreamer", "ffmpeg")
	FourCC      string // ピクセルフォーマット指定 (4文字コード、空なら指定しない)
	JPEGQuality int    // ストリーミング時のJPEG品質 (1〜100)
}

// 有効なキャプチャバックエンドの一覧
var validBackends = map[string]bool{
	"any":       true,
	"v4l2":      true,
	"gstreamer": true,
	"ffmpeg":    true,
}

// Load は環境変数から設定を読み込む
// 設定されていない項目はデフォルト値を使う
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnvOrDefault("SERVER_HOST", "0.0.0.0"),
			Port:         getEnvAsIntOrDefault("PORT", 8080),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 0, // ストリーミング用にタイムアウト無効化
		},
		Camera: CameraConfig{
			DeviceIndex: getEnvAsIntOrDefault("CAMERA_DEVICE_INDEX", 0),
			Width:       getEnvAsIntOrDefault("CAMERA_WIDTH", 1920),
			Height:      getEnvAsIntOrDefault("CAMERA_HEIGHT", 1080),
			Backend:     getEnvOrDefault("CAMERA_BACKEND", "v4l2"),
			FourCC:      getEnvOrDefault("CAMERA_FOURCC", "YUYV"),
			JPEGQuality: getEnvAsIntOrDefault("CAMERA_JPEG_QUALITY", 100),
		},
	}

	// 設定の検証
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("設定の検証に失敗: %w", err)
	}

	return cfg, nil
}

// Validate は設定の妥当性を検証する
func (c *Config) Validate() error {
	// サーバー設定の検証
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("無効なポート番号: %d", c.Server.Port)
	}

	// カメラ設定の検証
	if c.Camera.DeviceIndex < 0 {
		return fmt.Errorf("無効なデバイス番号: %d", c.Camera.DeviceIndex)
	}
	if c.Camera.Width <= 0 || c.Camera.Height <= 0 {
		return fmt.Errorf("無効な解像度: %dx%d", c.Camera.Width, c.Camera.Height)
	}
	if !validBackends[c.Camera.Backend] {
		return fmt.Errorf("無効なバックエンド: %s", c.Camera.Backend)
	}
	if c.Camera.FourCC != "" && len(c.Camera.FourCC) != 4 {
		return fmt.Errorf("FourCCは4文字である必要があります: %s", c.Camera.FourCC)
	}
	if c.Camera.JPEGQuality < 1 || c.Camera.JPEGQuality > 100 {
		return fmt.Errorf("無効なJPEG品質: %d", c.Camera.JPEGQuality)
	}

	return nil
}

// ServerAddress はサーバーのリッスンアドレスを返す
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// getEnvOrDefault は環境変数を取得し、設定されていない場合はデフォルト値を返す
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault は環境変数を整数として取得し、設定されていない場合はデフォルト値を返す
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var intVal int
		if _, err := fmt.Sscanf(value, "%d", &intVal); err == nil {
			return intVal
		}
	}
	return defaultValue
}
