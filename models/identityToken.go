package models

import "github.com/spf13/cast"

const UserIDClaim = "userId"

// IdentityToken 請求者身分，由AuthMiddleware解析後放入context
type IdentityToken map[string]any

// UserID 取得userId，不存在、為null或無法轉換皆視為匿名
func (t IdentityToken) UserID() (uint, bool) {
	if t == nil {
		return 0, false
	}
	raw, ok := t[UserIDClaim]
	if !ok || raw == nil {
		return 0, false
	}
	id, err := cast.ToUintE(raw)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
