package config

import (
	"os"
	"testing"
)

// TestConfigLoad は設定の読み込みをテストする
func TestConfigLoad(t *testing.T) {
	// 設定を読み込む
	cfg, err := Load()
	if err != nil {
		t.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	if cfg == nil {
		t.Fatal("設定がnilです")
	}

	// サーバー設定の検証
	if cfg.Server.Host == "" {
		t.Error("サーバーホストが設定されていません")
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		t.Errorf("無効なポート番号: %d", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout <= 0 {
		t.Error("読み込みタイムアウトが設定されていません")
	}
	// WriteTimeout は 0（無効）でも正常
	if cfg.Server.WriteTimeout < 0 {
		t.Error("書き込みタイムアウトが負の値です")
	}

	// カメラ設定のデフォルト値を検証
	if cfg.Camera.DeviceIndex < 0 {
		t.Errorf("無効なデバイス番号: %d", cfg.Camera.DeviceIndex)
	}
	if cfg.Camera.Width <= 0 || cfg.Camera.Height <= 0 {
		t.Errorf("無効な解像度: %dx%d", cfg.Camera.Width, cfg.Camera.Height)
	}
	if cfg.Camera.Backend == "" {
		t.Error("バックエンドが設定されていません")
	}
	if cfg.Camera.JPEGQuality < 1 || cfg.Camera.JPEGQuality > 100 {
		t.Errorf("無効なJPEG品質: %d", cfg.Camera.JPEGQuality)
	}
}

// TestConfigValidation は設定の検証をテストする
func TestConfigValidation(t *testing.T) {
	testCases := []struct {
		name      string
		config    *Config
		expectErr bool
	}{
		{
			name: "正常な設定",
			config: &Config{
				Server: ServerConfig{Host: "localhost", Port: 8080},
				Camera: CameraConfig{
					DeviceIndex: 0,
					Width:       1920,
					Height:      1080,
					Backend:     "v4l2",
					FourCC:      "YUYV",
					JPEGQuality: 100,
				},
			},
			expectErr: false,
		},
		{
			name: "無効なポート番号",
			config: &Config{
				Server: ServerConfig{Host: "localhost", Port: 99999},
				Camera: CameraConfig{
					DeviceIndex: 0, Width: 1920, Height: 1080,
					Backend: "v4l2", JPEGQuality: 100,
				},
			},
			expectErr: true,
		},
		{
			name: "負のデバイス番号",
			config: &Config{
				Server: ServerConfig{Host: "localhost", Port: 8080},
				Camera: CameraConfig{
					DeviceIndex: -1, Width: 1920, Height: 1080,
					Backend: "v4l2", JPEGQuality: 100,
				},
			},
			expectErr: true,
		},
		{
			name: "無効な解像度",
			config: &Config{
				Server: ServerConfig{Host: "localhost", Port: 8080},
				Camera: CameraConfig{
					DeviceIndex: 0, Width: 0, Height: 1080,
					Backend: "v4l2", JPEGQuality: 100,
				},
			},
			expectErr: true,
		},
		{
			name: "無効なバックエンド",
			config: &Config{
				Server: ServerConfig{Host: "localhost", Port: 8080},
				Camera: CameraConfig{
					DeviceIndex: 0, Width: 1920, Height: 1080,
					Backend: "directshow", JPEGQuality: 100,
				},
			},
			expectErr: true,
		},
		{
			name: "FourCCが4文字ではない",
			config: &Config{
				Server: ServerConfig{Host: "localhost", Port: 8080},
				Camera: CameraConfig{
					DeviceIndex: 0, Width: 1920, Height: 1080,
					Backend: "v4l2", FourCC: "JPG", JPEGQuality: 100,
				},
			},
			expectErr: true,
		},
		{
			name: "FourCC未指定は許可",
			config: &Config{
				Server: ServerConfig{Host: "localhost", Port: 8080},
				Camera: CameraConfig{
					DeviceIndex: 0, Width: 1920, Height: 1080,
					Backend: "any", FourCC: "", JPEGQuality: 100,
				},
			},
			expectErr: false,
		},
		{
			name: "無効なJPEG品質",
			config: &Config{
				Server: ServerConfig{Host: "localhost", Port: 8080},
				Camera: CameraConfig{
					DeviceIndex: 0, Width: 1920, Height: 1080,
					Backend: "v4l2", JPEGQuality: 0,
				},
			},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.config.Validate()
			if tc.expectErr && err == nil {
				t.Error("エラーが期待されましたが、エラーが発生しませんでした")
			}
			if !tc.expectErr && err != nil {
				t.Errorf("予期しないエラーが発生しました: %v", err)
			}
		})
	}
}

// TestServerAddress はサーバーアドレスの生成をテストする
func TestServerAddress(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{
			Host: "192.168.1.100",
			Port: 9090,
		},
	}

	expected := "192.168.1.100:9090"
	actual := cfg.ServerAddress()

	if actual != expected {
		t.Errorf("サーバーアドレスが一致しません: got %s, want %s", actual, expected)
	}
}

// TestEnvironmentVariables は環境変数の処理をテストする
// 注意: このテストは環境変数を変更するため、parallelは使わない
func TestEnvironmentVariables(t *testing.T) {
	originalIndex := os.Getenv("CAMERA_DEVICE_INDEX")
	originalWidth := os.Getenv("CAMERA_WIDTH")
	originalFourCC := os.Getenv("CAMERA_FOURCC")

	defer func() {
		// テスト後に環境変数を復元
		_ = os.Setenv("CAMERA_DEVICE_INDEX", originalIndex)
		_ = os.Setenv("CAMERA_WIDTH", originalWidth)
		_ = os.Setenv("CAMERA_FOURCC", originalFourCC)
	}()

	_ = os.Setenv("CAMERA_DEVICE_INDEX", "2")
	_ = os.Setenv("CAMERA_WIDTH", "1280")
	_ = os.Setenv("CAMERA_FOURCC", "MJPG")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	if cfg.Camera.DeviceIndex != 2 {
		t.Errorf("環境変数のデバイス番号が反映されていません: got %d, want 2", cfg.Camera.DeviceIndex)
	}
	if cfg.Camera.Width != 1280 {
		t.Errorf("環境変数の幅が反映されていません: got %d, want 1280", cfg.Camera.Width)
	}
	if cfg.Camera.FourCC != "MJPG" {
		t.Errorf("環境変数のFourCCが反映されていません: got %s, want MJPG", cfg.Camera.FourCC)
	}
}
