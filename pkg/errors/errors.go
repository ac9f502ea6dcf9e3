package errors

import "errors"

// ErrUniqueViolation 存储层唯一约束冲突（由 Repository 从 SQLSTATE 23505 翻译而来）
var ErrUniqueViolation = errors.New("唯一约束冲突")

// Kind 业务错误分类
type Kind string

const (
	KindValidation Kind = "validation" // 输入不合法，调用方修正后重试
	KindNotFound   Kind = "not_found"  // 引用的实体不存在
	KindConflict   Kind = "conflict"   // 与现有数据冲突
	KindState      Kind = "state"      // 当前状态不允许该操作
	KindAccess     Kind = "access"     // 无权操作
)

// Error 带分类与业务码的错误
type Error struct {
	Kind    Kind
	Code    int
	Message string
	Details interface{}
}

// New 创建业务错误（通常作为包级哨兵变量）
func New(kind Kind, code int, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func (e *Error) Error() string { return e.Message }

// Is 按业务码匹配，附带 Details 的副本仍可 errors.Is 到哨兵
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithDetails 返回附带详情的副本，哨兵本身不被修改
func (e *Error) WithDetails(details interface{}) *Error {
	cp := *e
	cp.Details = details
	return &cp
}

// As 从错误链中提取业务错误
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf 返回错误分类；非业务错误返回空串
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return ""
}
