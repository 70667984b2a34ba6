package handlers

import (
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"message-actions-api/internal/actions"
	"message-actions-api/internal/constants"
	"message-actions-api/internal/ethtx"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupActionRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	compiler, err := ethtx.NewCompiler(ethtx.Config{
		ContractAddress: common.HexToAddress(constants.DefaultContract),
		ChainID:         big.NewInt(constants.DefaultChainID),
		ChainName:       constants.ChainName,
	})
	require.NoError(t, err)

	handler := NewActionHandler(compiler)

	router := gin.New()
	router.GET(constants.ActionPath, handler.DescribeAction)
	router.POST(constants.ActionPath, handler.ExecuteAction)
	router.OPTIONS(constants.ActionPath, handler.Preflight)
	return router
}

func TestDescribeAction(t *testing.T) {
	router := setupActionRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, constants.ActionPath, nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var manifest actions.Manifest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &manifest))

	// Base URL reflects the inbound request host.
	assert.Equal(t, "http://"+req.Host, manifest.BaseURL)

	require.Len(t, manifest.Actions, 1)
	action := manifest.Actions[0]
	assert.Equal(t, constants.ActionPath, action.Path)
	assert.Equal(t, constants.ChainTag, action.Chains.Source)

	require.Len(t, action.Params, 2)
	assert.Equal(t, constants.ParamMessage, action.Params[0].Name)
	assert.Equal(t, constants.ParamTypeText, action.Params[0].Type)
	assert.True(t, action.Params[0].Required)
	assert.Equal(t, constants.ParamAmount, action.Params[1].Name)
	assert.Equal(t, constants.ParamTypeNumber, action.Params[1].Type)
	assert.False(t, action.Params[1].Required)
}

func TestDescribeActionForwardedProto(t *testing.T) {
	router := setupActionRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, constants.ActionPath, nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var manifest actions.Manifest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &manifest))
	assert.Equal(t, "https://"+req.Host, manifest.BaseURL)
}

func TestExecuteAction(t *testing.T) {
	router := setupActionRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, constants.ActionPath+"?message=hi", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp ExecutionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, constants.ChainName, resp.ChainName)
	assert.True(t, strings.HasPrefix(resp.SerializedTransaction, "0x"))

	// The serialized payload must decode back to the configured deployment.
	descriptor, err := ethtx.DecodeLegacyTx(resp.SerializedTransaction)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(constants.DefaultContract), descriptor.To)
	assert.Equal(t, int64(constants.DefaultChainID), descriptor.ChainID.Int64())
	assert.NotEmpty(t, descriptor.Data)
}

func TestExecuteActionAcceptsUnusedAmount(t *testing.T) {
	router := setupActionRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, constants.ActionPath+"?message=hi&amount=5", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestExecuteActionMissingMessage(t *testing.T) {
	router := setupActionRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, constants.ActionPath, nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Message parameter is required"}`, w.Body.String())
}

func TestExecuteActionEmptyMessage(t *testing.T) {
	router := setupActionRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, constants.ActionPath+"?message=", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Message parameter is required"}`, w.Body.String())
}

func TestPreflight(t *testing.T) {
	router := setupActionRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, constants.ActionPath+"?message=ignored", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-CSRF-Token")
}
