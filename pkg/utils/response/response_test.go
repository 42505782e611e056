package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	appErr "hwbot/pkg/errors"
	"hwbot/pkg/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestSuccess(t *testing.T) {
	c, rec := newContext()
	c.Set("trace_id", "trace-1")

	Success(c, map[string]int{"cursor": 1})

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, appErr.Success, resp.Code)
	assert.Equal(t, "trace-1", resp.TraceID)
}

func TestErrorCodedAndLogged(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	c, rec := newContext()

	Error(c, logger.NewWithCore(core), appErr.MissingKeyError("homeworks"))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, appErr.MissingKey, resp.Code)
	assert.Contains(t, resp.Message, "homeworks")
	assert.Equal(t, 1, logs.FilterMessage("request error").Len())
}

func TestErrorPlain(t *testing.T) {
	c, rec := newContext()

	Error(c, nil, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, appErr.InternalServerError, resp.Code)
	assert.Equal(t, "boom", resp.Message)
	assert.Nil(t, resp.Details)
}

func TestNotFound(t *testing.T) {
	c, rec := newContext()

	NotFound(c, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, appErr.NotFound, decode(t, rec).Code)
}
