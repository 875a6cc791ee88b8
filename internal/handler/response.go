package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/linzhiyi/taskpilot/internal/errs"
)

// Response 统一响应
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// success 成功响应
func success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: 0, Message: "success", Data: data})
}

// created 创建成功响应
func created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Code: 0, Message: "created", Data: data})
}

// noContent 删除成功响应
func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// badRequest 参数错误响应
func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Code: -1, Message: msg})
}

// errorResponse 按错误类型映射状态码
func errorResponse(c *gin.Context, err error) {
	switch {
	case errs.IsNotFound(err):
		c.JSON(http.StatusNotFound, Response{Code: -1, Message: err.Error()})
	case errs.IsValidation(err), errs.IsInvalidMessage(err):
		c.JSON(http.StatusBadRequest, Response{Code: -1, Message: err.Error()})
	default:
		// 未分类错误不向客户端泄露内部细节
		c.JSON(http.StatusInternalServerError, Response{Code: -1, Message: "internal server error"})
	}
}

// getLimit 获取 limit 查询参数
func getLimit(c *gin.Context, def int) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(def)))
	if err != nil || limit <= 0 {
		return def
	}
	return limit
}
