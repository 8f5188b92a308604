//go:build ignore

// check-transfers.go - walks every page of GET /transfers for an address and
// cross-checks the pagination envelope against what was returned.
//
// Usage:
//   go run scripts/check-transfers.go -address 0xabc... [-api http://localhost:8080] [-limit 100]

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

const (
	colorRed   = "\033[0;31m"
	colorGreen = "\033[0;32m"
	colorReset = "\033[0m"
)

type transferRecord struct {
	ID              int64  `json:"id"`
	FromAddress     string `json:"from_address"`
	ToAddress       string `json:"to_address"`
	Value           string `json:"value"`
	BlockNumber     uint64 `json:"block_number"`
	TransactionHash string `json:"transaction_hash"`
}

type listResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Transfers  []transferRecord `json:"transfers"`
		Pagination struct {
			Page       int   `json:"page"`
			Limit      int   `json:"limit"`
			Total      int64 `json:"total"`
			TotalPages int64 `json:"totalPages"`
		} `json:"pagination"`
	} `json:"data"`
	Error string `json:"error"`
}

func main() {
	apiURL := flag.String("api", "http://localhost:8080", "Query API base URL")
	address := flag.String("address", "", "Address to list transfers for")
	limit := flag.Int("limit", 100, "Page size")
	flag.Parse()

	if !common.IsHexAddress(*address) {
		fail("invalid -address %q", *address)
	}
	addr := strings.ToLower(*address)

	client := &http.Client{Timeout: 30 * time.Second}

	var (
		seen      int64
		total     int64
		incoming  = decimal.Zero
		outgoing  = decimal.Zero
		lastBlock = ^uint64(0)
	)

	for page := 1; ; page++ {
		resp, err := fetchPage(client, *apiURL, addr, page, *limit)
		if err != nil {
			fail("page %d: %v", page, err)
		}
		pg := resp.Data.Pagination
		total = pg.Total

		for _, tr := range resp.Data.Transfers {
			if tr.BlockNumber > lastBlock {
				fail("transfer %d out of order: block %d after %d", tr.ID, tr.BlockNumber, lastBlock)
			}
			lastBlock = tr.BlockNumber

			v, err := decimal.NewFromString(tr.Value)
			if err != nil {
				fail("transfer %d has non-decimal value %q", tr.ID, tr.Value)
			}
			if tr.ToAddress == addr {
				incoming = incoming.Add(v)
			}
			if tr.FromAddress == addr {
				outgoing = outgoing.Add(v)
			}
			seen++
		}

		if int64(page) >= pg.TotalPages {
			break
		}
	}

	if seen != total {
		fail("walked %d transfers but pagination reported %d", seen, total)
	}

	fmt.Printf("%s✓%s %s: %d transfers\n", colorGreen, colorReset, addr, total)
	fmt.Printf("  in:  %s\n", incoming.String())
	fmt.Printf("  out: %s\n", outgoing.String())
	fmt.Printf("  net: %s\n", incoming.Sub(outgoing).String())
}

func fetchPage(client *http.Client, base, addr string, page, limit int) (*listResponse, error) {
	q := url.Values{}
	q.Set("address", addr)
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	resp, err := client.Get(strings.TrimRight(base, "/") + "/transfers?" + q.Encode())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var out listResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || !out.Success {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, out.Error)
	}
	return &out, nil
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"✗ "+format+colorReset+"\n", args...)
	os.Exit(1)
}
