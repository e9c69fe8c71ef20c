package service

import "errors"

// ErrInvalidInput は入力検証エラーをラップする。handler は 400 に対応付ける
var ErrInvalidInput = errors.New("invalid input")
