package camera

import (
	"fmt"
	"sync"

	"toomi/internal/config"
)

// MockFrame はテスト用のFrame実装
// EncodeJPEGは保持しているバイト列をそのまま返す
type MockFrame struct {
	FrameWidth  int
	FrameHeight int
	Data        []byte
}

// Width は画像幅を返す
func (f *MockFrame) Width() int {
	return f.FrameWidth
}

// Height は画像高さを返す
func (f *MockFrame) Height() int {
	return f.FrameHeight
}

// EncodeJPEG は保持しているバイト列の複製を返す
func (f *MockFrame) EncodeJPEG(_ int) ([]byte, error) {
	data := make([]byte, len(f.Data))
	copy(data, f.Data)
	return data, nil
}

// Clone はフレームの複製を返す
func (f *MockFrame) Clone() Frame {
	data := make([]byte, len(f.Data))
	copy(data, f.Data)
	return &MockFrame{
		FrameWidth:  f.FrameWidth,
		FrameHeight: f.FrameHeight,
		Data:        data,
	}
}

// Close は何もしない
func (f *MockFrame) Close() {}

// MockDevice はテスト用のDevice実装
type MockDevice struct {
	mu    sync.Mutex
	props map[Property]float64

	// テスト制御用
	shouldFailRead  bool
	shouldRejectSet bool
	clamp           map[Property]float64 // 設定時の上限（読み戻しが要求値と異なるケース用）

	closed    bool
	readCount int
}

// NewMockDevice は新しいMockDeviceを作成する
func NewMockDevice() *MockDevice {
	return &MockDevice{
		props: make(map[Property]float64),
		clamp: make(map[Property]float64),
	}
}

// Opener はこのデバイスを返すOpenFuncを返す
func (d *MockDevice) Opener() OpenFunc {
	return func(_ config.CameraConfig) (Device, error) {
		return d, nil
	}
}

// FailingOpener は常に失敗するOpenFuncを返す
func FailingOpener(err error) OpenFunc {
	return func(_ config.CameraConfig) (Device, error) {
		return nil, err
	}
}

// ReadFrame はダミーフレームを返す
func (d *MockDevice) ReadFrame() (Frame, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.shouldFailRead {
		return nil, fmt.Errorf("モック: フレーム読み込みに失敗")
	}

	d.readCount++
	return &MockFrame{
		FrameWidth:  640,
		FrameHeight: 480,
		Data:        []byte("mock-jpeg-frame"),
	}, nil
}

// Set はプロパティを記録する
// 上限が設定されている場合は丸めた値を記録する（ドライバの挙動の模倣）
func (d *MockDevice) Set(prop Property, value float64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.shouldRejectSet {
		return false
	}

	if limit, ok := d.clamp[prop]; ok && value > limit {
		value = limit
	}
	d.props[prop] = value
	return true
}

// Get は記録されたプロパティ値を返す
func (d *MockDevice) Get(prop Property) float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.props[prop]
}

// Close はクローズ済みフラグを立てる
func (d *MockDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// Closed はCloseが呼ばれたかどうかを返す
func (d *MockDevice) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// ReadCount は成功したフレーム読み込みの回数を返す
func (d *MockDevice) ReadCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.readCount
}

// SetShouldFailRead はテスト用にフレーム読み込みの失敗を設定する
func (d *MockDevice) SetShouldFailRead(shouldFail bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.shouldFailRead = shouldFail
}

// SetShouldRejectSet はテスト用にプロパティ書き込みの拒否を設定する
func (d *MockDevice) SetShouldRejectSet(shouldReject bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.shouldRejectSet = shouldReject
}

// SetClamp はテスト用にプロパティ設定時の上限を設定する
func (d *MockDevice) SetClamp(prop Property, max float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clamp[prop] = max
}
