package camera

import (
	"log"
	"sync"
	"time"

	"toomi/internal/config"
)

const (
	// readRetryInterval は一時的な読み込み失敗時の再試行間隔
	readRetryInterval = 10 * time.Millisecond

	// stopTimeout はキャプチャループの終了を待つ最大時間
	stopTimeout = 1 * time.Second
)

// Manager はカメラのライフサイクルと最新フレームの共有を管理する
// running/lastFrame/デバイスハンドルへのアクセスはすべてmuの中で行う
type Manager struct {
	mu sync.Mutex

	cfg  config.CameraConfig
	open OpenFunc

	running   bool
	device    Device
	lastFrame Frame
	done      chan struct{} // キャプチャループの終了通知
}

// NewManager は新しいManagerを作成する
// openがnilの場合はgocvによる実デバイスのオープンを使う
func NewManager(cfg config.CameraConfig, open OpenFunc) *Manager {
	if open == nil {
		open = OpenGoCV
	}
	return &Manager{
		cfg:  cfg,
		open: open,
	}
}

// Start はキャプチャループを開始する（既に実行中なら何もしない）
// デバイスのオープンはループ側で行うため、失敗は同期的には伝播しない
// 失敗した場合はrunningがfalseに戻ることで観測できる
func (m *Manager) Start() {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	done := make(chan struct{})
	m.done = done
	m.mu.Unlock()

	go m.captureLoop(done)
}

// Stop はキャプチャループを停止し、カメラリソースを解放する
// ループが停止フラグを観測するのを有界時間だけ待ち、その後は
// ループの終了有無にかかわらず無条件にクリーンアップする
func (m *Manager) Stop() {
	m.mu.Lock()
	m.running = false
	done := m.done
	m.mu.Unlock()

	if done != nil {
		select {
		case <-done:
		case <-time.After(stopTimeout):
		}
	}

	m.mu.Lock()
	m.releaseLocked()
	m.mu.Unlock()
}

// Running は現在キャプチャ中かどうかを返す
func (m *Manager) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// SnapshotFrame は現在の実行状態と最新フレームの複製を返す
// フレームがまだない場合はnilを返す。返されたフレームは呼び出し側がCloseする
func (m *Manager) SnapshotFrame() (bool, Frame) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lastFrame == nil {
		return m.running, nil
	}
	return m.running, m.lastFrame.Clone()
}

// SetProperty はプロパティを書き込み、直後に読み戻した結果を返す
// 書き込みと読み戻しが他の呼び出しと交錯しないよう、ロックの中で連続して実行する
// ドライバが書き込みを拒否してもエラーにはしない（OK=falseで報告する）
func (m *Manager) SetProperty(prop Property, value float64) (PropertyResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.device == nil {
		return PropertyResult{}, ErrNotOpen
	}

	ok := m.device.Set(prop, value)
	applied := m.device.Get(prop)

	return PropertyResult{
		OK:        ok,
		Requested: value,
		Applied:   applied,
	}, nil
}

// Properties は追跡対象プロパティのスナップショットを返す
func (m *Manager) Properties() (map[string]float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.device == nil {
		return nil, ErrNotOpen
	}

	props := make(map[string]float64, len(trackedProperties))
	for _, p := range trackedProperties {
		props[p.Name()] = m.device.Get(p)
	}
	return props, nil
}

// captureLoop はバックグラウンドでフレームを読み続ける
// lastFrameの唯一の書き込み側であり、実行中はデバイスハンドルを所有する
func (m *Manager) captureLoop(done chan struct{}) {
	defer close(done)

	device, err := m.open(m.cfg)
	if err != nil {
		m.mu.Lock()
		m.running = false
		m.releaseLocked()
		m.mu.Unlock()
		log.Printf("[CAM] カメラのオープンに失敗しました: %v", err)
		return
	}

	m.mu.Lock()
	m.device = device
	m.mu.Unlock()

	log.Printf("[CAM] キャプチャを開始しました")

	for {
		m.mu.Lock()
		if !m.running {
			m.mu.Unlock()
			break
		}
		dev := m.device
		m.mu.Unlock()

		if dev == nil {
			break
		}

		// ブロックするフレーム読み込みはロックの外で行う
		frame, err := dev.ReadFrame()
		if err != nil {
			time.Sleep(readRetryInterval)
			continue
		}

		m.mu.Lock()
		if !m.running {
			// 読み込み中に停止された場合は公開しない
			m.mu.Unlock()
			frame.Close()
			break
		}
		if m.lastFrame != nil {
			m.lastFrame.Close()
		}
		m.lastFrame = frame
		m.mu.Unlock()
	}

	log.Printf("[CAM] キャプチャを停止します")

	m.mu.Lock()
	m.releaseLocked()
	m.mu.Unlock()
}

// releaseLocked はデバイスと最新フレームを解放する（ロック保持前提）
// 何度呼んでも安全
func (m *Manager) releaseLocked() {
	if m.device != nil {
		_ = m.device.Close()
		m.device = nil
	}
	if m.lastFrame != nil {
		m.lastFrame.Close()
		m.lastFrame = nil
	}
}
