package ethtx

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
)

// UnsignedTxDescriptor is an unsigned legacy transaction ready for a wallet
// to sign and broadcast. Nonce, gas and value stay zero here; fee policy and
// nonce management belong to the signer.
type UnsignedTxDescriptor struct {
	Nonce    uint64
	GasPrice *big.Int
	Gas      uint64
	To       common.Address
	Value    *big.Int
	Data     []byte
	ChainID  *big.Int
	Type     uint8
}

// legacyTxWire is the nine-field EIP-155 preimage of an unsigned legacy
// transaction: the chain ID occupies the V slot with empty R and S.
type legacyTxWire struct {
	Nonce    uint64
	GasPrice *big.Int
	Gas      uint64
	To       *common.Address `rlp:"nil"`
	Value    *big.Int
	Data     []byte
	ChainID  *big.Int
	R        *big.Int
	S        *big.Int
}

// SerializeLegacyTx RLP-encodes the descriptor into a 0x-prefixed hex string.
func SerializeLegacyTx(d *UnsignedTxDescriptor) (string, error) {
	if d.Type != types.LegacyTxType {
		return "", errors.Errorf("unsupported transaction type %d", d.Type)
	}
	if d.ChainID == nil {
		return "", errors.New("descriptor is missing a chain ID")
	}

	to := d.To
	wire := legacyTxWire{
		Nonce:    d.Nonce,
		GasPrice: bigOrZero(d.GasPrice),
		Gas:      d.Gas,
		To:       &to,
		Value:    bigOrZero(d.Value),
		Data:     d.Data,
		ChainID:  d.ChainID,
		R:        new(big.Int),
		S:        new(big.Int),
	}

	raw, err := rlp.EncodeToBytes(&wire)
	if err != nil {
		return "", errors.Wrap(err, "failed to RLP-encode legacy transaction")
	}
	return hexutil.Encode(raw), nil
}

// DecodeLegacyTx reverses SerializeLegacyTx. Wallet-side consumers and the
// round-trip tests use it to recover the descriptor fields.
func DecodeLegacyTx(serialized string) (*UnsignedTxDescriptor, error) {
	raw, err := hexutil.Decode(serialized)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode transaction hex")
	}

	var wire legacyTxWire
	if err := rlp.DecodeBytes(raw, &wire); err != nil {
		return nil, errors.Wrap(err, "failed to RLP-decode legacy transaction")
	}
	if wire.To == nil {
		return nil, errors.New("serialized transaction has no destination address")
	}

	return &UnsignedTxDescriptor{
		Nonce:    wire.Nonce,
		GasPrice: wire.GasPrice,
		Gas:      wire.Gas,
		To:       *wire.To,
		Value:    wire.Value,
		Data:     wire.Data,
		ChainID:  wire.ChainID,
		Type:     types.LegacyTxType,
	}, nil
}

func bigOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
