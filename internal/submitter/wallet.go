// Package submitter batches signed operations into ledger transactions
// and publishes them through a Cardano wallet backend's REST API.
package submitter

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prism-network/prism-index/internal/prismop"
)

// TxId is the ledger transaction id returned once a submission is
// accepted by the wallet backend.
type TxId string

// WalletSink publishes batches of signed operations to a Cardano wallet
// backend's transaction endpoint, embedding them as label-21325 ledger
// metadata.
type WalletSink struct {
	client           *http.Client
	baseURL          string
	walletID         string
	passphrase       string
	paymentAddress   string
	paymentLovelace  uint64
}

func NewWalletSink(baseURL, walletID, passphrase, paymentAddress string, timeout time.Duration) *WalletSink {
	return &WalletSink{
		client:          &http.Client{Timeout: timeout},
		baseURL:         baseURL,
		walletID:        walletID,
		passphrase:      passphrase,
		paymentAddress:  paymentAddress,
		paymentLovelace: 1_000_000,
	}
}

type txRequest struct {
	Passphrase string          `json:"passphrase"`
	Payments   []payment       `json:"payments"`
	Metadata   json.RawMessage `json:"metadata"`
}

type payment struct {
	Address string        `json:"address"`
	Amount  paymentAmount `json:"amount"`
}

type paymentAmount struct {
	Quantity uint64 `json:"quantity"`
	Unit     string `json:"unit"`
}

type txResponse struct {
	ID string `json:"id"`
}

// PublishOperations wraps operations in a ProtocolBlock/ProtocolObject,
// protobuf-encodes the result, chunks it into label-21325 ledger
// metadata, and submits a transaction carrying it. Non-2xx responses
// produce an error carrying the status code and response body.
func (w *WalletSink) PublishOperations(ctx context.Context, operations []prismop.WireSignedPrismOperation) (TxId, error) {
	obj := prismop.WireObject{BlockContent: &prismop.WireBlock{Operations: operations}}
	metadata, err := encodeMetadataJSON(obj)
	if err != nil {
		return "", fmt.Errorf("submitter: encode metadata: %w", err)
	}

	reqBody := txRequest{
		Passphrase: w.passphrase,
		Payments: []payment{
			{Address: w.paymentAddress, Amount: paymentAmount{Quantity: w.paymentLovelace, Unit: "lovelace"}},
		},
		Metadata: metadata,
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("submitter: marshal transaction request: %w", err)
	}

	url := fmt.Sprintf("%s/wallets/%s/transactions", w.baseURL, w.walletID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("submitter: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("submitter: submit transaction: %w", err)
	}
	defer resp.Body.Close()

	respBody, readErr := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("submitter: wallet returned status %d: %s", resp.StatusCode, string(respBody))
	}
	if readErr != nil {
		return "", fmt.Errorf("submitter: read response body: %w", readErr)
	}

	var tx txResponse
	if err := json.Unmarshal(respBody, &tx); err != nil {
		return "", fmt.Errorf("submitter: decode transaction response: %w", err)
	}
	return TxId(tx.ID), nil
}

// encodeMetadataJSON protobuf-encodes obj, splits it into 64-byte
// chunks, and renders the wallet's JSON transaction-metadata shape:
// {"21325": {"map": [{"k":{"string":"v"},"v":{"int":1}}, {"k":{"string":"c"},"v":{"list":[{"bytes":hex}, ...]}}]}}
func encodeMetadataJSON(obj prismop.WireObject) (json.RawMessage, error) {
	chunks := chunk64(obj.Encode())
	byteGroup := make([]map[string]any, len(chunks))
	for i, c := range chunks {
		byteGroup[i] = map[string]any{"bytes": hex.EncodeToString(c)}
	}

	doc := map[string]any{
		fmt.Sprintf("%d", metadataLabel): map[string]any{
			"map": []map[string]any{
				{"k": map[string]any{"string": "v"}, "v": map[string]any{"int": 1}},
				{"k": map[string]any{"string": "c"}, "v": map[string]any{"list": byteGroup}},
			},
		},
	}
	return json.Marshal(doc)
}

const metadataLabel = 21325

func chunk64(b []byte) [][]byte {
	var chunks [][]byte
	for len(b) > 0 {
		n := 64
		if n > len(b) {
			n = len(b)
		}
		chunks = append(chunks, append([]byte(nil), b[:n]...))
		b = b[n:]
	}
	return chunks
}
