package repository

import "errors"

// 見つからないのは想定内の結果。ユーザーに見せるエラーではない。
var ErrNotFound = errors.New("not found")
