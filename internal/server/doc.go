// Package server は、HTTPサーバーとWebSocket通信を管理します。
//
// このパッケージは、HTTPサーバーの起動、ルーティング、MJPEGストリーミング、
// WebSocket制御チャンネルの処理、ランディングページの配信を担当します。
//
// 責務:
//   - HTTPサーバーの起動と管理
//   - MJPEGストリーム（multipart/x-mixed-replace）の配信
//   - WebSocket制御メッセージのディスパッチ
//   - 埋め込みランディングページの配信
//
// 仕様:
//   - ルーティングはgin-gonic/ginを使用
//   - WebSocketはgorilla/websocketを使用
//   - 制御メッセージのJSON処理はgoccy/go-jsonを使用
//   - グレースフルシャットダウンに対応
//   - 複数クライアントの同時ストリーミング接続をサポート
package server
