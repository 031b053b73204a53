// Package camera は、USBカメラのキャプチャと制御を管理します。
//
// このパッケージは、カメラデバイスのオープン/クローズ、バックグラウンド
// ゴルーチンによる連続キャプチャ、最新フレームの共有、デバイスプロパティの
// 設定と読み戻しを担当します。
//
// 責務:
//   - カメラデバイスのライフサイクル管理（オープン/クローズ）
//   - キャプチャループによる最新フレームの保持
//   - 複数ゴルーチンからの安全なフレーム参照
//   - デバイスプロパティ（露出、ゲイン、フォーカスなど）の設定と読み戻し
//
// 仕様:
//   - デバイスアクセスはgocv（OpenCV VideoCapture）を使用
//   - running/lastFrame/デバイスハンドルへのアクセスは単一のミューテックスで直列化
//   - 停止は協調的（フラグ + 有界待機 + 無条件クリーンアップ）
//   - テスト用にDevice/Frameインターフェースとモック実装を提供
package camera
