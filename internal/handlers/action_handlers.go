package handlers

import (
	"errors"
	"net/http"

	"message-actions-api/internal/actions"
	"message-actions-api/internal/constants"
	"message-actions-api/internal/ethtx"

	"github.com/gin-gonic/gin"
)

const (
	msgMissingMessage = "Message parameter is required"
	msgInternalError  = "Internal Server Error"
)

// ActionHandler serves the action manifest and compiles execution requests
// into unsigned transactions.
type ActionHandler struct {
	compiler *ethtx.Compiler
}

// ExecutionRequest carries the query parameters of an execution request.
// Amount is declared in the manifest and accepted here, but the compiler
// does not consume it.
type ExecutionRequest struct {
	Message string `form:"message"`
	Amount  string `form:"amount"`
}

// ExecutionResponse is the terminal artifact returned to the caller.
type ExecutionResponse struct {
	SerializedTransaction string `json:"serializedTransaction"`
	ChainName             string `json:"chainName"`
}

// NewActionHandler creates a new instance of ActionHandler
func NewActionHandler(compiler *ethtx.Compiler) *ActionHandler {
	return &ActionHandler{compiler: compiler}
}

// DescribeAction returns the validated action manifest. The base URL comes
// from the inbound request so consumers know where to POST.
func (h *ActionHandler) DescribeAction(c *gin.Context) {
	manifest := buildManifest(requestBaseURL(c))

	validated, err := actions.ValidateManifest(manifest, constants.ActionPath)
	if err != nil {
		sendError(c, http.StatusInternalServerError, msgInternalError, err)
		return
	}

	c.JSON(http.StatusOK, validated)
}

// ExecuteAction compiles the message parameter into an unsigned serialized
// transaction. A missing or empty message is a client error with a fixed
// body; everything else surfaces as a generic internal error.
func (h *ActionHandler) ExecuteAction(c *gin.Context) {
	var req ExecutionRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		sendError(c, http.StatusBadRequest, msgMissingMessage, err)
		return
	}

	result, err := h.compiler.Compile(req.Message)
	if err != nil {
		if errors.Is(err, ethtx.ErrEmptyMessage) {
			sendError(c, http.StatusBadRequest, msgMissingMessage, err)
			return
		}
		sendError(c, http.StatusInternalServerError, msgInternalError, err)
		return
	}

	c.JSON(http.StatusOK, ExecutionResponse{
		SerializedTransaction: result.SerializedTransaction,
		ChainName:             result.ChainName,
	})
}

// Preflight answers OPTIONS requests that bypass the CORS middleware (no
// Origin header present). Browsers get the same allow set either way.
func (h *ActionHandler) Preflight(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-CSRF-Token, X-Requested-With, Accept")
	c.Status(http.StatusNoContent)
}

func buildManifest(baseURL string) *actions.Manifest {
	return &actions.Manifest{
		URL:         "https://snowmessage.xyz",
		Icon:        "https://snowmessage.xyz/icon.png",
		Title:       "On-chain Message Board",
		Description: "Store a short message on the Fuji message board contract",
		BaseURL:     baseURL,
		Actions: []actions.Action{
			{
				Label:       "Store Message",
				Description: "Stores your message on-chain together with a timestamp derived from it",
				Chains:      actions.ChainSpec{Source: constants.ChainTag},
				Path:        constants.ActionPath,
				Params: []actions.Parameter{
					{
						Name:        constants.ParamMessage,
						Label:       "Message",
						Type:        constants.ParamTypeText,
						Required:    true,
						Description: "The message to store on-chain",
					},
					{
						Name:        constants.ParamAmount,
						Label:       "Amount",
						Type:        constants.ParamTypeNumber,
						Required:    false,
						Description: "Optional amount",
					},
				},
			},
		},
	}
}

// requestBaseURL reconstructs the externally visible address of this
// deployment from the inbound request.
func requestBaseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host
}
