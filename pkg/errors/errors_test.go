package errors

import (
	"errors"
	"fmt"
	"testing"
)

var errSample = New(KindConflict, 40901, "示例冲突")

func TestWithDetails_StillMatchesSentinel(t *testing.T) {
	err := errSample.WithDetails([]string{"stu-1"})
	if !errors.Is(err, errSample) {
		t.Fatal("附带详情的副本应匹配哨兵")
	}
	if errSample.Details != nil {
		t.Error("WithDetails 不应修改哨兵")
	}
	wrapped := fmt.Errorf("外层: %w", err)
	e, ok := As(wrapped)
	if !ok {
		t.Fatal("应能从包装链中提取业务错误")
	}
	if ids, _ := e.Details.([]string); len(ids) != 1 || ids[0] != "stu-1" {
		t.Errorf("Details 丢失: %#v", e.Details)
	}
}

func TestKindOf(t *testing.T) {
	if KindOf(errSample) != KindConflict {
		t.Errorf("期望 conflict，实际 %s", KindOf(errSample))
	}
	if KindOf(errors.New("plain")) != "" {
		t.Error("普通错误不应有分类")
	}
	other := New(KindConflict, 40902, "另一个冲突")
	if errors.Is(other, errSample) {
		t.Error("不同业务码不应匹配")
	}
}
