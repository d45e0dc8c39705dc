package service

// Result はアダプタの結果（成功メッセージまたは失敗の説明）
// ツール境界で String() により1つの表示用文字列にまとめる
type Result struct {
	text string
	err  bool
}

// OK は成功結果を生成
func OK(message string) Result {
	return Result{text: message}
}

// Err は失敗結果を生成
func Err(description string) Result {
	return Result{text: description, err: true}
}

// IsErr は失敗結果かどうかを返す
func (r Result) IsErr() bool {
	return r.err
}

// String は表示用文字列を返す
func (r Result) String() string {
	return r.text
}
