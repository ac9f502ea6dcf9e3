package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fmandres92/schoolmate-backend-sub002/internal/api/middleware"
	apperrors "github.com/fmandres92/schoolmate-backend-sub002/pkg/errors"
	"github.com/fmandres92/schoolmate-backend-sub002/pkg/response"
)

// kindStatus 业务错误分类 → HTTP 状态码
var kindStatus = map[apperrors.Kind]int{
	apperrors.KindValidation: http.StatusBadRequest,
	apperrors.KindNotFound:   http.StatusNotFound,
	apperrors.KindConflict:   http.StatusConflict,
	apperrors.KindState:      http.StatusUnprocessableEntity,
	apperrors.KindAccess:     http.StatusForbidden,
}

// handleServiceError 统一处理 Service 层错误
// 业务错误按分类返回，details 放入 data；其余一律 500
func handleServiceError(c *gin.Context, err error) {
	e, ok := apperrors.As(err)
	if !ok {
		_ = c.Error(err)
		response.InternalError(c)
		return
	}
	status, ok := kindStatus[e.Kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	response.ErrorWithData(c, status, e.Code, e.Message, e.Details)
}

// badRequest 请求绑定失败
func badRequest(c *gin.Context, err error) {
	if middleware.IsBodyTooLarge(err) {
		response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
		return
	}
	response.BadRequest(c, 10001, "参数校验失败")
}
