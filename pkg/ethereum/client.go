package ethereum

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/cenkalti/backoff/v4"
	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/chainsafe/transfer-indexer/internal/metrics"
	"github.com/chainsafe/transfer-indexer/pkg/config"
	"github.com/chainsafe/transfer-indexer/pkg/scanner"
	"github.com/chainsafe/transfer-indexer/pkg/transfer"
)

const (
	methodGetLogs     = "eth_getLogs"
	methodBlockNumber = "eth_blockNumber"
)

// logRPC is the subset of ethclient.Client used for indexing.
type logRPC interface {
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// Client fetches Transfer logs from an Ethereum JSON-RPC endpoint with retries and pacing
type Client struct {
	config   *config.EthereumConfig
	rpc      logRPC
	close    func()
	limiter  *rate.Limiter
	contract *common.Address
	logger   *zap.Logger
}

// ErrMissingRPCURL is returned by NewClient when ethereum.rpc_url is not configured.
var ErrMissingRPCURL = errors.New("ethereum.rpc_url is required")

// NewClient creates a new Ethereum client
func NewClient(cfg *config.EthereumConfig, logger *zap.Logger) (*Client, error) {
	if cfg.RPCURL == "" {
		return nil, ErrMissingRPCURL
	}
	client, err := ethclient.Dial(cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Ethereum RPC: %w", err)
	}

	c := newClient(client, cfg, logger)
	c.close = client.Close

	fields := []zap.Field{zap.String("rpc_url", cfg.RPCURL)}
	if c.contract != nil {
		fields = append(fields, zap.String("token_contract", c.contract.Hex()))
	}
	logger.Info("Connected to Ethereum", fields...)

	return c, nil
}

func newClient(rpc logRPC, cfg *config.EthereumConfig, logger *zap.Logger) *Client {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	c := &Client{
		config:  cfg,
		rpc:     rpc,
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger.Named("ethereum"),
	}
	if cfg.TokenContract != "" {
		addr := common.HexToAddress(cfg.TokenContract)
		c.contract = &addr
	}
	return c
}

// Close closes the underlying RPC connection
func (c *Client) Close() {
	if c.close != nil {
		c.close()
	}
}

// LatestBlockNumber returns the current chain head
func (c *Client) LatestBlockNumber(ctx context.Context) (uint64, error) {
	var head uint64
	err := c.call(ctx, methodBlockNumber, nil, func(attemptCtx context.Context) error {
		n, err := c.rpc.BlockNumber(attemptCtx)
		if err != nil {
			return err
		}
		head = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	metrics.ChainHead.Set(float64(head))
	return head, nil
}

// FetchTransferLogs returns the Transfer logs emitted in the chunk, issuing one eth_getLogs per attempt
func (c *Client) FetchTransferLogs(ctx context.Context, chunk scanner.Chunk) ([]types.Log, error) {
	query := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(chunk.Lo),
		ToBlock:   new(big.Int).SetUint64(chunk.Hi),
		Topics:    [][]common.Hash{{transfer.TransferTopic}},
	}
	if c.contract != nil {
		query.Addresses = []common.Address{*c.contract}
	}

	var logs []types.Log
	err := c.call(ctx, methodGetLogs, &chunk, func(attemptCtx context.Context) error {
		result, err := c.rpc.FilterLogs(attemptCtx, query)
		if err != nil {
			return err
		}
		logs = result
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.LogsFetched.Add(float64(len(logs)))
	return logs, nil
}

// call runs fn under the retry policy. Each attempt waits for the rate limiter and
// runs under its own request timeout. Fatal errors and parent cancellation stop retrying.
func (c *Client) call(ctx context.Context, method string, chunk *scanner.Chunk, fn func(context.Context) error) error {
	start := time.Now()
	defer func() {
		metrics.FetchDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	}()

	attempts := 0
	var lastKind error

	operation := func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		attempts++
		attemptCtx, cancel := context.WithTimeout(ctx, c.config.RequestTimeout)
		defer cancel()

		err := fn(attemptCtx)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}

		lastKind = classify(err)
		if errors.Is(lastKind, ErrFatalFetch) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		metrics.FetchRetries.WithLabelValues(method).Inc()
		fields := []zap.Field{
			zap.String("method", method),
			zap.Int("attempt", attempts),
			zap.Duration("retry_in", wait),
			zap.Error(err),
		}
		if chunk != nil {
			fields = append(fields, zap.Uint64("from_block", chunk.Lo), zap.Uint64("to_block", chunk.Hi))
		}
		c.logger.Warn("RPC call failed, retrying", fields...)
	}

	err := backoff.RetryNotify(operation, c.retryPolicy(ctx), notify)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if lastKind == nil {
		return err
	}

	fetchErr := &FetchError{
		Kind:     lastKind,
		Method:   method,
		Chunk:    chunk,
		Attempts: attempts,
		Err:      err,
	}
	metrics.FetchErrors.WithLabelValues(method, fetchErr.kindLabel()).Inc()
	return fetchErr
}

func (c *Client) retryPolicy(ctx context.Context) backoff.BackOffContext {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.config.RetryInitialInterval
	b.MaxInterval = c.config.RetryMaxInterval
	b.MaxElapsedTime = 0
	b.Reset()

	return backoff.WithContext(backoff.WithMaxRetries(b, c.config.MaxRetries), ctx)
}
