package camera

import (
	"errors"

	"toomi/internal/config"
)

// ErrNotOpen はカメラが開かれていない状態でのプロパティアクセスを表す
var ErrNotOpen = errors.New("カメラが開かれていません")

// PropertyResult はプロパティ設定の結果を表す
// Requestedは要求した値、Appliedはドライバから読み戻した値
// ドライバが書き込みを拒否した場合はOKがfalseになる（エラーにはしない）
type PropertyResult struct {
	OK        bool    `json:"ok"`
	Requested float64 `json:"requested"`
	Applied   float64 `json:"applied"`
}

// Frame は1枚のキャプチャ画像を表す
// 実装はピクセルバッファを所有し、不要になったらCloseで解放する
type Frame interface {
	// Width は画像幅を返す
	Width() int

	// Height は画像高さを返す
	Height() int

	// EncodeJPEG は指定品質でJPEGエンコードしたバイト列を返す
	EncodeJPEG(quality int) ([]byte, error)

	// Clone はフレームの独立した複製を返す
	Clone() Frame

	// Close はピクセルバッファを解放する
	Close()
}

// Device はオープン済みのカメラデバイスを表す
// 実装ごとの排他制御は行わない。呼び出しの直列化はManagerが担う
type Device interface {
	// ReadFrame は1フレームを読み込む
	ReadFrame() (Frame, error)

	// Set はプロパティを書き込む。ドライバが拒否した場合はfalseを返す
	Set(prop Property, value float64) bool

	// Get はプロパティの現在値を読み戻す
	Get(prop Property) float64

	// Close はデバイスハンドルを解放する
	Close() error
}

// OpenFunc はカメラデバイスを開く関数
// 本番ではOpenGoCV、テストではモックを注入する
type OpenFunc func(cfg config.CameraConfig) (Device, error)
