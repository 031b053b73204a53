package camera

// Property はカメラデバイスのプロパティを表す型付き列挙
// ドライバ固有の数値IDはデバイス実装側の対応表に隔離する
type Property int

const (
	// PropWhiteBalanceTemperature はホワイトバランス色温度
	PropWhiteBalanceTemperature Property = iota
	// PropExposure は露出
	PropExposure
	// PropGain はゲイン
	PropGain
	// PropFocus はフォーカス位置
	PropFocus
	// PropZoom はズーム倍率
	PropZoom
	// PropAutoExposure は自動露出の有効/無効
	PropAutoExposure
	// PropAutoWhiteBalance は自動ホワイトバランスの有効/無効
	PropAutoWhiteBalance
	// PropAutoFocus はオートフォーカスの有効/無効
	PropAutoFocus
	// PropFrameWidth は画像幅
	PropFrameWidth
	// PropFrameHeight は画像高さ
	PropFrameHeight
)

// propertyNames はスナップショット時のキー名
var propertyNames = map[Property]string{
	PropAutoWhiteBalance:        "white_balance_auto",
	PropWhiteBalanceTemperature: "white_balance",
	PropAutoExposure:            "auto_exposure",
	PropExposure:                "exposure",
	PropGain:                    "gain",
	PropAutoFocus:               "autofocus",
	PropFocus:                   "focus",
	PropZoom:                    "zoom",
	PropFrameWidth:              "width",
	PropFrameHeight:             "height",
}

// trackedProperties はProperties()が読み戻す対象の一覧
var trackedProperties = []Property{
	PropAutoWhiteBalance,
	PropWhiteBalanceTemperature,
	PropAutoExposure,
	PropExposure,
	PropGain,
	PropAutoFocus,
	PropFocus,
	PropZoom,
	PropFrameWidth,
	PropFrameHeight,
}

// Name はスナップショットで使うプロパティ名を返す
func (p Property) Name() string {
	if name, ok := propertyNames[p]; ok {
		return name
	}
	return "unknown"
}
