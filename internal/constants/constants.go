package constants

// Target chain defaults. The service compiles transactions for exactly one
// chain; overrides come from the environment at startup, never per request.
const (
	DefaultChainID  = 43113
	ChainName       = "Avalanche Fuji"
	ChainTag        = "fuji"
	DefaultContract = "0xd9145CCE52D386f254917e481eB44e9943F39138"
	ContractEnvVar  = "CONTRACT_ADDRESS"
	ChainIDEnvVar   = "CHAIN_ID"
)

// ActionPath is the single action endpoint. The manifest advertises this
// same path for execution, so the route table and the manifest must agree.
const ActionPath = "/api/actions/message"

// Query parameter names on the execution request.
const (
	ParamMessage = "message"
	ParamAmount  = "amount"
)

// Parameter type tags understood by manifest consumers.
const (
	ParamTypeText   = "text"
	ParamTypeNumber = "number"
)
