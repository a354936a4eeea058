package api

import (
	"testing"
	"time"

	"bizbooks/config"
	"bizbooks/middleware"
	"bizbooks/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var userColumns = []string{"id", "username", "password", "email", "business_name", "status", "created_at", "updated_at", "deleted_at"}

func testAuthConfig() *config.Config {
	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "debug"},
		JWT:    config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour},
	}
	config.GlobalConfig = cfg
	middleware.InitJWT(cfg)
	return cfg
}

func TestAuthHandler_Register(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := testAuthConfig()
	defer func() { config.GlobalConfig = nil }()

	// 检查用户名不存在：SELECT 返回无记录
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("newuser").
		WillReturnRows(sqlmock.NewRows([]string{}))

	// GORM Create 使用事务
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.POST("/register", NewAuthHandler(cfg).Register)

	w := doRequest(router, "POST", "/register", `{"username":"newuser","password":"password123","email":"test@example.com","business_name":" Sunrise Salon "}`)

	assert.Equal(t, 200, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, float64(200), resp["code"])
	assert.Equal(t, "注册成功", resp["message"])
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "Sunrise Salon", data["business_name"])
	assert.Equal(t, models.UserStatusActive, data["status"])
	assert.NotContains(t, w.Body.String(), "password123")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Register_UsernameExists(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := testAuthConfig()
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("existinguser").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(1, "existinguser", "hash", "e@x.com", "", "active", time.Now(), time.Now(), nil))

	router := gin.New()
	router.POST("/register", NewAuthHandler(cfg).Register)

	w := doRequest(router, "POST", "/register", `{"username":"existinguser","password":"password123"}`)

	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "用户名已存在", decodeResponse(t, w)["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Login(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	cfg := testAuthConfig()
	defer func() { config.GlobalConfig = nil }()

	// SELECT 用户（username OR email）
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("loginuser", "loginuser").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(1, "loginuser", string(hashed), "login@x.com", "Shop", models.UserStatusActive, time.Now(), time.Now(), nil))

	router := gin.New()
	router.POST("/login", NewAuthHandler(cfg).Login)

	w := doRequest(router, "POST", "/login", `{"username":"loginuser","password":"password123"}`)

	assert.Equal(t, 200, w.Code)
	data := responseData(t, w)
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)

	claims, err := middleware.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(1), claims.UserID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Login_Locked(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := testAuthConfig()
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("locked", "locked").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(2, "locked", "hash", "", "", models.UserStatusLocked, time.Now(), time.Now(), nil))

	router := gin.New()
	router.POST("/login", NewAuthHandler(cfg).Login)

	w := doRequest(router, "POST", "/login", `{"username":"locked","password":"whatever"}`)

	assert.Equal(t, 403, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Login_UserNotFound(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := testAuthConfig()
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("nouser", "nouser").
		WillReturnRows(sqlmock.NewRows([]string{}))

	router := gin.New()
	router.POST("/login", NewAuthHandler(cfg).Login)

	w := doRequest(router, "POST", "/login", `{"username":"nouser","password":"any"}`)

	assert.Equal(t, 401, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_ChangePassword_WrongOldPassword(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	hashed, _ := bcrypt.GenerateFromPassword([]byte("right-password"), bcrypt.DefaultCost)
	cfg := testAuthConfig()
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(3, "owner", string(hashed), "", "", models.UserStatusActive, time.Now(), time.Now(), nil))

	router := gin.New()
	router.Use(setUserIDMiddleware(3))
	router.PUT("/password", NewAuthHandler(cfg).ChangePassword)

	w := doRequest(router, "PUT", "/password", `{"old_password":"wrong-password","new_password":"newpassword"}`)

	assert.Equal(t, 401, w.Code)
	assert.Equal(t, "原密码错误", decodeResponse(t, w)["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}
