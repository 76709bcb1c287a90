package models

import (
	"errors"
	"fmt"
)

var (
	// ErrDecode is returned for malformed image payloads
	ErrDecode = fmt.Errorf("image decode failed")
	// ErrNetwork is returned when the AI or remote collaborator is unreachable or answers non-2xx
	ErrNetwork = fmt.Errorf("network request failed")
	// ErrPartialData is returned when an AI response lacks expected fields
	ErrPartialData = fmt.Errorf("incomplete response")
	// ErrLocalPersistence is returned when local storage could not save data
	ErrLocalPersistence = fmt.Errorf("local storage failed")

	ErrNotFound      = fmt.Errorf("not found")
	ErrInvalidInput  = fmt.Errorf("invalid input")
	ErrEmptyWardrobe = fmt.Errorf("wardrobe is empty")
	ErrNoSelection   = fmt.Errorf("no items selected")
	ErrSyncNotActive = fmt.Errorf("sync is not active")
)

// UserMessage converts err into the notification text shown to the user
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyWardrobe):
		return "衣櫃是空的，請先新增衣物！"
	case errors.Is(err, ErrNoSelection):
		return "請先選擇要試穿的衣物"
	case errors.Is(err, ErrDecode):
		return "圖片格式無法讀取，請換一張照片"
	case errors.Is(err, ErrNetwork), errors.Is(err, ErrPartialData):
		return "AI 或雲端服務暫時無法使用，請稍後再試"
	case errors.Is(err, ErrLocalPersistence):
		return "本機儲存失敗，資料可能尚未保存"
	case errors.Is(err, ErrNotFound):
		return "找不到這件衣物"
	case errors.Is(err, ErrInvalidInput):
		return "輸入資料不完整"
	case errors.Is(err, ErrSyncNotActive):
		return "尚未加入同步房間"
	default:
		return "發生未知錯誤"
	}
}

// Retryable reports whether the user can retry the failed operation as-is
func Retryable(err error) bool {
	return errors.Is(err, ErrNetwork) || errors.Is(err, ErrPartialData)
}

// ErrorResponse is the JSON body of every failed request
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}
