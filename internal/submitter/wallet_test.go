package submitter

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/prism-network/prism-index/internal/prismop"
)

func sampleOperations() []prismop.WireSignedPrismOperation {
	wire := prismop.NewCreateDidOperation([]prismop.NewKeyInput{
		{ID: "master0", Usage: prismop.KeyUsageMaster, Curve: "secp256k1", CompressedKeyData: make([]byte, 33)},
	}, nil, nil)
	return []prismop.WireSignedPrismOperation{
		{SignedWith: "master0", Signature: []byte("sig"), Operation: wire},
	}
}

func TestPublishOperationsPostsExpectedShapeAndReturnsTxId(t *testing.T) {
	var captured txRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/wallets/wallet-1/transactions" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(txResponse{ID: "tx-abc"})
	}))
	defer server.Close()

	sink := NewWalletSink(server.URL, "wallet-1", "hunter2", "addr_test1", 5*time.Second)
	txID, err := sink.PublishOperations(context.Background(), sampleOperations())
	if err != nil {
		t.Fatalf("PublishOperations: %v", err)
	}
	if txID != "tx-abc" {
		t.Fatalf("expected tx id tx-abc, got %q", txID)
	}
	if captured.Passphrase != "hunter2" {
		t.Fatalf("expected passphrase to be forwarded, got %q", captured.Passphrase)
	}
	if len(captured.Payments) != 1 || captured.Payments[0].Amount.Quantity != 1_000_000 {
		t.Fatalf("expected a single 1_000_000 lovelace payment, got %+v", captured.Payments)
	}

	var meta map[string]any
	if err := json.Unmarshal(captured.Metadata, &meta); err != nil {
		t.Fatalf("unmarshal metadata: %v", err)
	}
	if _, ok := meta["21325"]; !ok {
		t.Fatalf("expected metadata under label 21325, got %+v", meta)
	}
}

func TestPublishOperationsReturnsErrorOnNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("insufficient funds"))
	}))
	defer server.Close()

	sink := NewWalletSink(server.URL, "wallet-1", "pw", "addr", time.Second)
	_, err := sink.PublishOperations(context.Background(), sampleOperations())
	if err == nil {
		t.Fatal("expected an error for a 400 response")
	}
}

// TestEncodeMetadataJSONChunksMatchCBORReconstruction verifies that the
// hex byte chunks this package embeds in wallet JSON requests reassemble
// into the same protobuf bytes a chain-follower source would decode from
// the equivalent on-chain CBOR metadata.
func TestEncodeMetadataJSONChunksMatchCBORReconstruction(t *testing.T) {
	obj := prismop.WireObject{BlockContent: &prismop.WireBlock{Operations: sampleOperations()}}

	rawJSON, err := encodeMetadataJSON(obj)
	if err != nil {
		t.Fatalf("encodeMetadataJSON: %v", err)
	}
	var doc map[string]struct {
		Map []struct {
			K struct {
				String string `json:"string"`
			} `json:"k"`
			V struct {
				Int  *int `json:"int"`
				List []struct {
					Bytes string `json:"bytes"`
				} `json:"list"`
			} `json:"v"`
		} `json:"map"`
	}
	if err := json.Unmarshal(rawJSON, &doc); err != nil {
		t.Fatalf("unmarshal metadata json: %v", err)
	}
	entry, ok := doc["21325"]
	if !ok {
		t.Fatal("expected label 21325 in metadata")
	}

	var reconstructed []byte
	for _, kv := range entry.Map {
		if kv.K.String != "c" {
			continue
		}
		for _, item := range kv.V.List {
			b, err := hex.DecodeString(item.Bytes)
			if err != nil {
				t.Fatalf("decode hex chunk: %v", err)
			}
			reconstructed = append(reconstructed, b...)
		}
	}

	if string(reconstructed) != string(obj.Encode()) {
		t.Fatal("expected reassembled chunks to equal the protobuf-encoded object")
	}

	// The equivalent CBOR envelope a chain-follower source would see on
	// chain must also reassemble to the same bytes.
	cborEnv := struct {
		V uint64   `cbor:"v"`
		C [][]byte `cbor:"c"`
	}{V: 1, C: chunk64(obj.Encode())}
	cborBytes, err := cbor.Marshal(cborEnv)
	if err != nil {
		t.Fatalf("marshal cbor envelope: %v", err)
	}
	var decoded struct {
		V uint64   `cbor:"v"`
		C [][]byte `cbor:"c"`
	}
	if err := cbor.Unmarshal(cborBytes, &decoded); err != nil {
		t.Fatalf("unmarshal cbor envelope: %v", err)
	}
	var fromCbor []byte
	for _, c := range decoded.C {
		fromCbor = append(fromCbor, c...)
	}
	if string(fromCbor) != string(obj.Encode()) {
		t.Fatal("expected cbor-reassembled bytes to equal the protobuf-encoded object")
	}
}
