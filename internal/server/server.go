package server

import (
	"math/big"
	"os"
	"strconv"
	"strings"

	"message-actions-api/internal/constants"
	"message-actions-api/internal/ethtx"
	"message-actions-api/internal/handlers"
	"message-actions-api/internal/logger"
	"message-actions-api/internal/middleware"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler Definitions
var (
	actionHandler *handlers.ActionHandler
	healthHandler *handlers.HealthHandler
)

// InitializeHandlers builds the transaction compiler from the environment
// and wires the handlers. Invalid deployment configuration is fatal.
func InitializeHandlers() {
	contractAddress := os.Getenv(constants.ContractEnvVar)
	if contractAddress == "" {
		contractAddress = constants.DefaultContract
	}
	if !common.IsHexAddress(contractAddress) {
		logger.Fatal("CONTRACT_ADDRESS is not a valid address",
			zap.String("address", contractAddress),
		)
	}

	chainID := int64(constants.DefaultChainID)
	if raw := os.Getenv(constants.ChainIDEnvVar); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			logger.Fatal("CHAIN_ID must be a positive integer",
				zap.String("chain_id", raw),
			)
		}
		chainID = parsed
	}

	compiler, err := ethtx.NewCompiler(ethtx.Config{
		ContractAddress: common.HexToAddress(contractAddress),
		ChainID:         big.NewInt(chainID),
		ChainName:       constants.ChainName,
	})
	if err != nil {
		logger.Fatal("Unable to create transaction compiler", zap.Error(err))
	}

	actionHandler = handlers.NewActionHandler(compiler)
	healthHandler = handlers.NewHealthHandler()
}

// InitializeRoutes registers middleware and the route table.
func InitializeRoutes(router *gin.Engine) {
	router.Use(configureCORS())
	router.Use(middleware.CorrelationID())

	// Health check
	router.GET("/health", healthHandler.Health)

	// Action routes. The manifest advertises constants.ActionPath, so the
	// GET, POST and OPTIONS registrations must all use it.
	action := router.Group("/")
	action.Use(actionHeaders())
	{
		action.GET(constants.ActionPath, actionHandler.DescribeAction)
		action.POST(constants.ActionPath, actionHandler.ExecuteAction)
		action.OPTIONS(constants.ActionPath, actionHandler.Preflight)
	}
}

// configureCORS returns a configured CORS middleware
func configureCORS() gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()

	// Get allowed origins from environment variable; default is any origin
	// since the manifest is meant for arbitrary wallet clients.
	originsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	if originsEnv == "" || originsEnv == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		origins := strings.Split(originsEnv, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		corsConfig.AllowOrigins = origins
	}

	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", "X-CSRF-Token", "X-Requested-With", "Accept"}

	return cors.New(corsConfig)
}

// actionHeaders attaches the CORS allow set to every action response,
// success and error alike, so browser callers can always read the body.
func actionHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Next()
	}
}
