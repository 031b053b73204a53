package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"toomi/internal/camera"
	"toomi/internal/config"
)

// frameWaitInterval はフレーム未着時にストリーミングループが待つ間隔
const frameWaitInterval = 20 * time.Millisecond

// Handler は各HTTPエンドポイントの実装を提供する
type Handler struct {
	config *config.Config
	camera *camera.Manager
}

// healthResponse はヘルスチェックのレスポンス
type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// statusResponse はステータス確認のレスポンス
type statusResponse struct {
	Status     string             `json:"status"`
	Server     serverInfo         `json:"server"`
	Running    bool               `json:"running"`
	Properties map[string]float64 `json:"properties,omitempty"`
	Timestamp  time.Time          `json:"timestamp"`
}

// serverInfo はサーバーの基本情報
type serverInfo struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// HandleIndex はランディングページを返す
func (h *Handler) HandleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Width":  h.config.Camera.Width,
		"Height": h.config.Camera.Height,
	})
}

// HandleHealth はヘルスチェックエンドポイントの実装
func (h *Handler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
	})
}

// HandleStatus はステータス確認エンドポイントの実装
// カメラが開かれている場合はプロパティのスナップショットも含める
func (h *Handler) HandleStatus(c *gin.Context) {
	response := statusResponse{
		Status: "running",
		Server: serverInfo{
			Host: h.config.Server.Host,
			Port: h.config.Server.Port,
		},
		Running:   h.camera.Running(),
		Timestamp: time.Now(),
	}

	props, err := h.camera.Properties()
	if err == nil {
		response.Properties = props
	} else if !errors.Is(err, camera.ErrNotOpen) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, response)
}

// HandleStream はMJPEGストリーミングエンドポイントの実装
// キャプチャ中でなければ503を返し、ストリーム本体は送らない
func (h *Handler) HandleStream(c *gin.Context) {
	if !h.camera.Running() {
		c.String(http.StatusServiceUnavailable,
			"カメラが開始されていません。先にcamera_startを送信してください。")
		return
	}

	// レスポンスヘッダーを設定
	c.Header("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("Access-Control-Allow-Origin", "*")

	writer := c.Writer
	flusher, ok := writer.(http.Flusher)
	if !ok {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	// クライアント切断を検知するためのコンテキスト
	clientGone := c.Request.Context().Done()

	// ストリーミングループ
	// キャプチャが停止したらストリームも終了する（閲覧専用モード）
	for {
		select {
		case <-clientGone:
			// クライアントが切断された
			return
		default:
		}

		running, frame := h.camera.SnapshotFrame()
		if !running {
			return
		}

		if frame == nil {
			// キャプチャループがまだフレームを公開していない
			time.Sleep(frameWaitInterval)
			continue
		}

		data, err := frame.EncodeJPEG(h.config.Camera.JPEGQuality)
		frame.Close()
		if err != nil {
			continue
		}

		// MJPEGフレームを書き込み
		if _, err := writer.Write([]byte("--frame\r\n")); err != nil {
			return
		}
		if _, err := fmt.Fprintf(writer, "Content-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", len(data)); err != nil {
			return
		}
		if _, err := writer.Write(data); err != nil {
			return
		}
		if _, err := writer.Write([]byte("\r\n")); err != nil {
			return
		}

		// バッファをフラッシュ
		flusher.Flush()
	}
}
