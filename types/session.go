package types

import "time"

// Identity 当前会话连接的钱包身份及演示用户资料
type Identity struct {
	Address     string    `json:"address"`
	Email       string    `json:"email"`
	CompanyName string    `json:"companyName"`
	Role        string    `json:"role"`
	ConnectedAt time.Time `json:"connectedAt"`
}
