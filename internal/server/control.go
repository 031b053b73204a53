package server

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"toomi/internal/camera"
)

// setPropertyMessages はset系メッセージタイプとプロパティの対応表
var setPropertyMessages = map[string]camera.Property{
	"set_white_balance_temperature": camera.PropWhiteBalanceTemperature,
	"set_exposure":                  camera.PropExposure,
	"set_gain":                      camera.PropGain,
	"set_focus":                     camera.PropFocus,
	"set_zoom":                      camera.PropZoom,
}

// controlMessage は制御チャンネルで受信するメッセージ
// set系メッセージはValueが必須
type controlMessage struct {
	Type  string   `json:"type"`
	Value *float64 `json:"value"`
}

// ControlHandler はWebSocket制御チャンネルを処理する
type ControlHandler struct {
	camera   *camera.Manager
	upgrader websocket.Upgrader
}

// NewControlHandler は新しいControlHandlerを作成する
func NewControlHandler(cam *camera.Manager) *ControlHandler {
	return &ControlHandler{
		camera: cam,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},
	}
}

// HandleControl は制御チャンネルの接続を処理する
// 1メッセージにつき1レスポンスを返す。メッセージ処理中のエラーは
// エラーレスポンスに変換し、接続自体は維持する
// 切断時はクリーンアップとして必ずカメラを停止する
func (h *ControlHandler) HandleControl(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] アップグレードに失敗しました: %v", err)
		return
	}

	connID := uuid.New().String()
	log.Printf("[WS] クライアントが接続しました: %s", connID)

	defer func() {
		h.camera.Stop()
		_ = conn.Close()
		log.Printf("[WS] クライアントが切断しました: %s", connID)
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		response := h.dispatch(raw)
		data, err := json.Marshal(response)
		if err != nil {
			log.Printf("[WS] レスポンスのエンコードに失敗しました: %v", err)
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}

// dispatch は1メッセージを処理して1レスポンスを作る
func (h *ControlHandler) dispatch(raw []byte) map[string]any {
	var msg controlMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return map[string]any{
			"type":  "error",
			"error": "invalid_json",
			"raw":   string(raw),
		}
	}

	switch msg.Type {
	case "camera_start":
		// オープンはバックグラウンドで行われるため、ackは成功確認前に返る
		h.camera.Start()
		return ackResponse("camera_start")

	case "camera_stop":
		h.camera.Stop()
		return ackResponse("camera_stop")

	case "get_props":
		props, err := h.camera.Properties()
		if err != nil {
			return exceptionResponse(msg.Type, err)
		}
		return map[string]any{
			"type":   "ack",
			"action": "get_props",
			"result": props,
		}
	}

	prop, ok := setPropertyMessages[msg.Type]
	if !ok {
		return map[string]any{
			"type":     "error",
			"error":    "unknown_type",
			"msg_type": msg.Type,
		}
	}

	if msg.Value == nil {
		return map[string]any{
			"type":  "error",
			"error": "missing_value",
			"for":   msg.Type,
		}
	}

	result, err := h.camera.SetProperty(prop, *msg.Value)
	if err != nil {
		return exceptionResponse(msg.Type, err)
	}
	return map[string]any{
		"type":   "ack",
		"action": msg.Type,
		"result": result,
	}
}

// ackResponse は成功応答を作る
func ackResponse(action string) map[string]any {
	return map[string]any{
		"type":   "ack",
		"action": action,
	}
}

// exceptionResponse は処理中のエラーをエラー応答に変換する
func exceptionResponse(msgType string, err error) map[string]any {
	return map[string]any{
		"type":     "error",
		"error":    "exception",
		"msg_type": msgType,
		"detail":   err.Error(),
	}
}
