package stores

import (
	"errors"
	"fmt"
)

var (
	// ErrConflict 使用者名稱或電子郵件已被註冊
	ErrConflict = errors.New("already exists")
	// ErrAuth 帳號不存在或密碼錯誤
	ErrAuth = errors.New("invalid credentials")
	// ErrNotFound 找不到指定的紀錄
	ErrNotFound = errors.New("not found")
	// ErrForbidden 請求者不是紀錄的擁有者
	ErrForbidden = errors.New("not the owner")
	// ErrValidation 輸入格式錯誤
	ErrValidation = errors.New("invalid input")
)

// 註冊失敗的細部原因，皆可用 errors.Is 比對到上面的分類
var (
	ErrUsernameTaken   = fmt.Errorf("username %w", ErrConflict)
	ErrEmailTaken      = fmt.Errorf("email %w", ErrConflict)
	ErrMissingFields   = fmt.Errorf("username, email and password are required: %w", ErrValidation)
	ErrPasswordTooLong = fmt.Errorf("password longer than %d bytes: %w", maxPasswordBytes, ErrValidation)
)
