// Package transfer decodes ERC-20 Transfer logs and defines the records persisted for them.
package transfer

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

const erc20TransferABI = `[{
	"anonymous": false,
	"type": "event",
	"name": "Transfer",
	"inputs": [
		{"indexed": true, "name": "from", "type": "address"},
		{"indexed": true, "name": "to", "type": "address"},
		{"indexed": false, "name": "value", "type": "uint256"}
	]
}]`

// TransferTopic is keccak256("Transfer(address,address,uint256)").
var TransferTopic = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))

// ErrMalformedLog is returned for logs that do not have the Transfer event shape.
var ErrMalformedLog = errors.New("malformed transfer log")

var transferABI = mustParseABI(erc20TransferABI)

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(fmt.Sprintf("invalid transfer ABI: %v", err))
	}
	return parsed
}

// Args are the Transfer event arguments, independent of how they were unpacked.
type Args struct {
	From  common.Address
	To    common.Address
	Value *big.Int
}

// Decode slices the Transfer arguments straight out of the log topics and data.
func Decode(log types.Log) (*Transfer, error) {
	if err := validateShape(log); err != nil {
		return nil, err
	}

	return FromArgs(log, Args{
		From:  common.BytesToAddress(log.Topics[1].Bytes()),
		To:    common.BytesToAddress(log.Topics[2].Bytes()),
		Value: new(big.Int).SetBytes(log.Data),
	}), nil
}

// DecodeABI unpacks the Transfer arguments through the event ABI.
func DecodeABI(log types.Log) (*Transfer, error) {
	if err := validateShape(log); err != nil {
		return nil, err
	}

	event, err := transferABI.EventByID(log.Topics[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedLog, err)
	}

	var indexed abi.Arguments
	for _, input := range event.Inputs {
		if input.Indexed {
			indexed = append(indexed, input)
		}
	}

	values := make(map[string]any, len(event.Inputs))
	if err := abi.ParseTopicsIntoMap(values, indexed, log.Topics[1:]); err != nil {
		return nil, fmt.Errorf("%w: topics: %v", ErrMalformedLog, err)
	}
	if err := event.Inputs.UnpackIntoMap(values, log.Data); err != nil {
		return nil, fmt.Errorf("%w: data: %v", ErrMalformedLog, err)
	}

	from, okFrom := values["from"].(common.Address)
	to, okTo := values["to"].(common.Address)
	value, okValue := values["value"].(*big.Int)
	if !okFrom || !okTo || !okValue {
		return nil, fmt.Errorf("%w: unexpected argument types", ErrMalformedLog)
	}

	return FromArgs(log, Args{From: from, To: to, Value: value}), nil
}

// FromArgs builds a Transfer from unpacked arguments and the log's metadata.
func FromArgs(log types.Log, args Args) *Transfer {
	return &Transfer{
		From:        args.From,
		To:          args.To,
		Value:       new(big.Int).Set(args.Value),
		BlockNumber: log.BlockNumber,
		TxHash:      log.TxHash,
		Contract:    log.Address,
		LogIndex:    log.Index,
	}
}

func validateShape(log types.Log) error {
	if len(log.Topics) != 3 {
		return fmt.Errorf("%w: expected 3 topics, got %d", ErrMalformedLog, len(log.Topics))
	}
	if log.Topics[0] != TransferTopic {
		return fmt.Errorf("%w: unexpected event signature %s", ErrMalformedLog, log.Topics[0].Hex())
	}
	if len(log.Data) != 32 {
		return fmt.Errorf("%w: expected 32 data bytes, got %d", ErrMalformedLog, len(log.Data))
	}
	return nil
}
