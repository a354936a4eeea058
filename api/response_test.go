package api

import (
	"errors"
	"net/http/httptest"
	"testing"

	"bizbooks/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestPage(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Page(c, PageRequest{Page: 2, PageSize: 5}, 11, []string{"a"})

	assert.Equal(t, 200, w.Code)
	assert.JSONEq(t, `{"code":200,"message":"success","data":{"total":11,"page":2,"page_size":5,"list":["a"]}}`, w.Body.String())
}

func TestServiceUnavailable(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	ServiceUnavailable(c, "邮件服务未启用")

	assert.Equal(t, 503, w.Code)
	assert.JSONEq(t, `{"code":503,"message":"邮件服务未启用"}`, w.Body.String())
}

func TestSafeErrorMessage(t *testing.T) {
	defer func() { config.GlobalConfig = nil }()
	err := errors.New("dial tcp 10.0.0.1:3306: connection refused")

	config.GlobalConfig = &config.Config{Server: config.ServerConfig{Mode: "debug"}}
	assert.Equal(t, err.Error(), SafeErrorMessage(err, "查询失败"))

	config.GlobalConfig.Server.Mode = "release"
	assert.Equal(t, "查询失败", SafeErrorMessage(err, "查询失败"))
}
