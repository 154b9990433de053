package service

// Identity 当前登录成员，零值表示未登录
// 各服务只读使用，不做修改
type Identity struct {
	MemberID uint
	Name     string
}

// Authenticated 是否已登录
func (i Identity) Authenticated() bool {
	return i.MemberID != 0
}
