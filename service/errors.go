package service

import "errors"

// 校验错误：操作被拒绝，状态不变
var (
	ErrDateCategoryRequired = errors.New("date and category required")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidCategory      = errors.New("invalid category")
	ErrInvalidDrinkType     = errors.New("invalid drink type")
	ErrInvalidField         = errors.New("invalid form field")
	ErrNoSelection          = errors.New("no member selected")
)

// 授权与业务错误
var (
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrNothingToUndo      = errors.New("nothing to undo")
	ErrMemberNotFound     = errors.New("member not found")
	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

var validationErrors = []error{
	ErrDateCategoryRequired,
	ErrInvalidAmount,
	ErrInvalidCategory,
	ErrInvalidDrinkType,
	ErrInvalidField,
	ErrNoSelection,
}

// IsValidation 判断是否为校验类错误（对应 HTTP 400）
func IsValidation(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
