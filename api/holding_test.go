package api

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var holdingColumns = []string{"id", "user_id", "name", "amount", "date", "created_at", "updated_at", "deleted_at"}

func holdingRouter() *gin.Engine {
	assets := NewAssetHandler()
	loans := NewLoanHandler()
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/assets", assets.Create)
	router.PUT("/assets/:id", assets.Update)
	router.POST("/loans", loans.Create)
	router.DELETE("/loans/:id", loans.Delete)
	return router
}

func TestAssetHandler_Create(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `assets`").
		WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectCommit()

	w := doRequest(holdingRouter(), "POST", "/assets", `{"name":" Espresso machine ","amount":"1800.00","date":"2026-03-02"}`)

	assert.Equal(t, 200, w.Code)
	data := responseData(t, w)
	assert.Equal(t, "Espresso machine", data["name"])
	assert.Equal(t, "1800", data["amount"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoanHandler_Create_ZeroAmountAllowed(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `loans`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	w := doRequest(holdingRouter(), "POST", "/loans", `{"name":"Bank loan","amount":"0","date":"2026-01-10"}`)

	assert.Equal(t, 200, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHoldingHandler_Create_Validation(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	cases := map[string]string{
		"negative amount": `{"name":"Van","amount":"-1","date":"2026-01-10"}`,
		"blank name":      `{"name":"   ","amount":"10","date":"2026-01-10"}`,
		"missing date":    `{"name":"Van","amount":"10"}`,
		"bad date":        `{"name":"Van","amount":"10","date":"Jan 10"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			w := doRequest(holdingRouter(), "POST", "/loans", body)
			assert.Equal(t, 400, w.Code)
		})
	}
}

func TestAssetHandler_Update_RejectsNegativeAmount(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `assets`").
		WillReturnRows(sqlmock.NewRows(holdingColumns).
			AddRow(2, 1, "Laptop", "900.00", time.Now(), time.Now(), time.Now(), nil))

	w := doRequest(holdingRouter(), "PUT", "/assets/2", `{"amount":"-5"}`)

	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "金额不能为负数", decodeResponse(t, w)["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoanHandler_Delete_NotFound(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `loans`").
		WillReturnRows(sqlmock.NewRows(holdingColumns))

	w := doRequest(holdingRouter(), "DELETE", "/loans/9", "")

	assert.Equal(t, 404, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
