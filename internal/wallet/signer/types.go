package signer

import "context"

// Service provides transaction signing functionality.
// Key custody and signing cryptography live outside this module; the
// orchestrator only decides what to sign and when.
type Service interface {
	// SignTransaction signs a transaction request and returns the RLP-encoded raw transaction
	SignTransaction(ctx context.Context, req *SignRequest) (*SignResponse, error)
}

// SignRequest represents a request to sign a transaction
type SignRequest struct {
	ChainID  int64  // Chain ID (1 for Ethereum mainnet, 137 for Polygon, etc.)
	From     string // Address to sign from (hex string with 0x prefix)
	To       string // Recipient address (hex string with 0x prefix)
	Value    string // Amount in wei (as string to avoid precision loss)
	GasLimit uint64 // Gas limit
	GasPrice string // Gas price in wei (as string)
	Nonce    uint64 // Transaction nonce
	Data     []byte // Transaction data (for contract calls)
}

// SignResponse represents a signed transaction
type SignResponse struct {
	RawTransaction []byte // RLP-encoded signed transaction
	TxHash         string // Transaction hash (hex string with 0x prefix)
}
