package common

// Result 保存一次呼叫的值或失敗原因
type Result[T any] struct {
	Value T
	Err   error
}

// Ok 建立成功結果
func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// Fail 建立失敗結果
func Fail[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

// OrElse 失敗時回傳 fallback(err)
func (r Result[T]) OrElse(fallback func(error) T) T {
	if r.Err != nil {
		return fallback(r.Err)
	}
	return r.Value
}
