package transfer

import (
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Transfer is a decoded ERC-20 Transfer event.
type Transfer struct {
	From        common.Address
	To          common.Address
	Value       *big.Int
	BlockNumber uint64
	TxHash      common.Hash
	Contract    common.Address
	LogIndex    uint
}

// Record is the persisted form of a transfer. Hex fields are lower-case and Value is a
// decimal string so uint256 amounts never pass through a native integer.
type Record struct {
	ID              int64     `json:"id"`
	FromAddress     string    `json:"from_address"`
	ToAddress       string    `json:"to_address"`
	Value           string    `json:"value"`
	BlockNumber     uint64    `json:"block_number"`
	TransactionHash string    `json:"transaction_hash"`
	ContractAddress string    `json:"contract_address"`
	CreatedAt       time.Time `json:"created_at"`
}

// Record converts the transfer to its persisted form.
func (t *Transfer) Record() *Record {
	value := "0"
	if t.Value != nil {
		value = t.Value.String()
	}

	return &Record{
		FromAddress:     NormalizeHex(t.From.Hex()),
		ToAddress:       NormalizeHex(t.To.Hex()),
		Value:           value,
		BlockNumber:     t.BlockNumber,
		TransactionHash: NormalizeHex(t.TxHash.Hex()),
		ContractAddress: NormalizeHex(t.Contract.Hex()),
	}
}

// NormalizeHex returns the canonical lower-case form of a hex address or hash.
func NormalizeHex(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
