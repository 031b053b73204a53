package camera

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"

	"toomi/internal/config"
)

// errReadFailed はフレーム読み込みの一時的な失敗を表す
var errReadFailed = errors.New("フレームの読み込みに失敗しました")

// propertyIDs はシンボル名とOpenCVのプロパティIDの対応表
// V4L2ではホワイトバランス色温度はCAP_PROP_TEMPERATURE(23)にマップされる
var propertyIDs = map[Property]gocv.VideoCaptureProperties{
	PropWhiteBalanceTemperature: gocv.VideoCaptureTemperature,
	PropExposure:                gocv.VideoCaptureExposure,
	PropGain:                    gocv.VideoCaptureGain,
	PropFocus:                   gocv.VideoCaptureFocus,
	PropZoom:                    gocv.VideoCaptureZoom,
	PropAutoExposure:            gocv.VideoCaptureAutoExposure,
	PropAutoWhiteBalance:        gocv.VideoCaptureAutoWB,
	PropAutoFocus:               gocv.VideoCaptureAutoFocus,
	PropFrameWidth:              gocv.VideoCaptureFrameWidth,
	PropFrameHeight:             gocv.VideoCaptureFrameHeight,
}

// backendAPIs は設定上のバックエンド名とOpenCVのAPI指定の対応表
var backendAPIs = map[string]gocv.VideoCaptureAPI{
	"any":       gocv.VideoCaptureAny,
	"v4l2":      gocv.VideoCaptureV4L2,
	"gstreamer": gocv.VideoCaptureGstreamer,
	"ffmpeg":    gocv.VideoCaptureFFmpeg,
}

// gocvDevice はgocv（OpenCV VideoCapture）によるDevice実装
type gocvDevice struct {
	cap *gocv.VideoCapture
}

// OpenGoCV は設定に従ってカメラデバイスを開く
// オープン成功後、ピクセルフォーマット・解像度を適用し、手動制御しやすい
// 既知の状態に揃える（自動露出は有効、自動WBとオートフォーカスは無効）
func OpenGoCV(cfg config.CameraConfig) (Device, error) {
	api, ok := backendAPIs[cfg.Backend]
	if !ok {
		api = gocv.VideoCaptureAny
	}

	cap, err := gocv.OpenVideoCaptureWithAPI(cfg.DeviceIndex, api)
	if err != nil {
		return nil, fmt.Errorf("カメラを開けません index=%d: %w", cfg.DeviceIndex, err)
	}
	if !cap.IsOpened() {
		_ = cap.Close()
		return nil, fmt.Errorf("カメラを開けません index=%d", cfg.DeviceIndex)
	}

	// カメラが対応していればMJPG等の受信設定は性能面で有利なことが多い
	if cfg.FourCC != "" {
		cap.Set(gocv.VideoCaptureFOURCC, cap.ToCodec(cfg.FourCC))
	}

	cap.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	cap.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	cap.Set(gocv.VideoCaptureAutoExposure, 1)
	cap.Set(gocv.VideoCaptureAutoWB, 0)
	cap.Set(gocv.VideoCaptureAutoFocus, 0)

	return &gocvDevice{cap: cap}, nil
}

// ReadFrame は1フレームを読み込む
func (d *gocvDevice) ReadFrame() (Frame, error) {
	mat := gocv.NewMat()
	if ok := d.cap.Read(&mat); !ok || mat.Empty() {
		_ = mat.Close()
		return nil, errReadFailed
	}
	return &matFrame{mat: mat}, nil
}

// Set はプロパティを書き込む
// gocvのSetは書き込み拒否を報告しないため、開いているデバイスへの発行は
// 常にtrueを返す。実際に適用された値は読み戻しで確認する
func (d *gocvDevice) Set(prop Property, value float64) bool {
	id, ok := propertyIDs[prop]
	if !ok {
		return false
	}
	d.cap.Set(id, value)
	return true
}

// Get はプロパティの現在値を読み戻す
func (d *gocvDevice) Get(prop Property) float64 {
	id, ok := propertyIDs[prop]
	if !ok {
		return 0
	}
	return d.cap.Get(id)
}

// Close はデバイスハンドルを解放する
func (d *gocvDevice) Close() error {
	return d.cap.Close()
}

// matFrame はgocv.MatによるFrame実装
type matFrame struct {
	mat gocv.Mat
}

// Width は画像幅を返す
func (f *matFrame) Width() int {
	return f.mat.Cols()
}

// Height は画像高さを返す
func (f *matFrame) Height() int {
	return f.mat.Rows()
}

// EncodeJPEG は指定品質でJPEGエンコードしたバイト列を返す
func (f *matFrame) EncodeJPEG(quality int) ([]byte, error) {
	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, f.mat, []int{gocv.IMWriteJpegQuality, quality})
	if err != nil {
		return nil, fmt.Errorf("JPEGエンコードに失敗: %w", err)
	}
	defer buf.Close()

	// NativeByteBufferの内容はClose後に無効になるためコピーする
	data := make([]byte, buf.Len())
	copy(data, buf.GetBytes())
	return data, nil
}

// Clone はフレームの独立した複製を返す
func (f *matFrame) Clone() Frame {
	return &matFrame{mat: f.mat.Clone()}
}

// Close はピクセルバッファを解放する
func (f *matFrame) Close() {
	_ = f.mat.Close()
}
