package ethtx

import (
	"math/big"
	"strings"
	"time"

	"message-actions-api/internal/logger"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// storeMessageABI is the published interface of the message store contract.
const storeMessageABI = `[{"inputs":[{"internalType":"string","name":"message","type":"string"},{"internalType":"uint256","name":"timestamp","type":"uint256"}],"name":"storeMessage","outputs":[],"stateMutability":"nonpayable","type":"function"}]`

const storeMessageMethod = "storeMessage"

// ErrEmptyMessage reports a missing or empty message parameter, the one
// client-input failure the compiler produces.
var ErrEmptyMessage = errors.New("message must not be empty")

// Config fixes the deployment the compiler targets. Both values are set once
// at startup; the compiler never reads them from the environment itself.
type Config struct {
	ContractAddress common.Address
	ChainID         *big.Int
	ChainName       string
}

// Compiler turns a message into an unsigned storeMessage transaction.
// Immutable after construction and safe for concurrent use; the wall clock
// is its only impure input.
type Compiler struct {
	cfg         Config
	contractABI abi.ABI
	now         func() time.Time
	logger      *zap.Logger
}

// Result carries the serialized transaction and the chain it targets.
type Result struct {
	SerializedTransaction string
	ChainName             string
}

// NewCompiler parses the contract interface and binds the compiler to the
// configured deployment.
func NewCompiler(cfg Config) (*Compiler, error) {
	if cfg.ChainID == nil || cfg.ChainID.Sign() <= 0 {
		return nil, errors.New("a positive chain ID is required")
	}

	parsed, err := abi.JSON(strings.NewReader(storeMessageABI))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse storeMessage ABI")
	}

	return &Compiler{
		cfg:         cfg,
		contractABI: parsed,
		now:         time.Now,
		logger:      logger.Log,
	}, nil
}

// WithClock returns a copy of the compiler using the given clock. Tests pin
// the timestamp with it.
func (c *Compiler) WithClock(now func() time.Time) *Compiler {
	clone := *c
	clone.now = now
	return &clone
}

// Compile derives the timestamp for the message, encodes the storeMessage
// call and serializes the resulting unsigned legacy transaction.
func (c *Compiler) Compile(message string) (*Result, error) {
	if message == "" {
		return nil, ErrEmptyMessage
	}

	derived := DerivedTimestamp(message, c.now().Unix())

	data, err := c.contractABI.Pack(storeMessageMethod, message, new(big.Int).SetInt64(derived))
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode storeMessage call")
	}

	descriptor := &UnsignedTxDescriptor{
		To:      c.cfg.ContractAddress,
		Data:    data,
		ChainID: new(big.Int).Set(c.cfg.ChainID),
		Type:    types.LegacyTxType,
	}

	serialized, err := SerializeLegacyTx(descriptor)
	if err != nil {
		return nil, errors.Wrap(err, "failed to serialize transaction")
	}

	if c.logger != nil {
		c.logger.Debug("Compiled storeMessage transaction",
			zap.Int64("derived_timestamp", derived),
			zap.Int("message_length", len(message)),
			zap.String("contract", c.cfg.ContractAddress.Hex()),
		)
	}

	return &Result{
		SerializedTransaction: serialized,
		ChainName:             c.cfg.ChainName,
	}, nil
}
