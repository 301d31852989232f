package postgres

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/prism-network/prism-index/internal/prismop"
	"github.com/prism-network/prism-index/internal/prismrepo"
)

// fakeScanner lets scanTimedOperation be exercised without a real
// database connection: it copies a fixed set of values into whatever
// destination pointers Scan is called with, mirroring how pgx.Row/Rows
// populate scan targets.
type fakeScanner struct {
	id         string
	blockNum   int64
	slotNum    int64
	cbt        time.Time
	absn       int32
	osn        int32
	signedWith string
	signature  []byte
	wireBytes  []byte
}

func (f fakeScanner) Scan(dest ...any) error {
	*dest[0].(*string) = f.id
	*dest[1].(*uint64) = uint64(f.blockNum)
	*dest[2].(*uint64) = uint64(f.slotNum)
	*dest[3].(*time.Time) = f.cbt
	*dest[4].(*uint32) = uint32(f.absn)
	*dest[5].(*uint32) = uint32(f.osn)
	*dest[6].(*string) = f.signedWith
	*dest[7].(*[]byte) = f.signature
	*dest[8].(*[]byte) = f.wireBytes
	return nil
}

func TestScanTimedOperationRoundTripsAllFields(t *testing.T) {
	wire := prismop.NewCreateDidOperation([]prismop.NewKeyInput{
		{ID: "master0", Usage: prismop.KeyUsageMaster, Curve: "secp256k1", CompressedKeyData: make([]byte, 33)},
	}, nil, nil)
	id := uuid.New()

	scanner := fakeScanner{
		id:         id.String(),
		blockNum:   42,
		slotNum:    99,
		cbt:        time.Unix(1000, 0).UTC(),
		absn:       2,
		osn:        3,
		signedWith: "master0",
		signature:  []byte("sig"),
		wireBytes:  wire.CanonicalBytes(),
	}

	row, err := scanTimedOperation(scanner)
	if err != nil {
		t.Fatalf("scanTimedOperation: %v", err)
	}
	if row.ID.String() != id.String() {
		t.Fatalf("expected id %s, got %s", id, row.ID)
	}
	if row.Metadata.Block.BlockNumber != 42 || row.Metadata.Block.SlotNumber != 99 {
		t.Fatalf("expected block/slot 42/99, got %+v", row.Metadata.Block)
	}
	if row.Metadata.Block.Absn != 2 || row.Metadata.Osn != 3 {
		t.Fatalf("expected absn/osn 2/3, got absn=%d osn=%d", row.Metadata.Block.Absn, row.Metadata.Osn)
	}
	if row.Signed.SignedWith != "master0" {
		t.Fatalf("expected signed_with master0, got %q", row.Signed.SignedWith)
	}
	if row.Signed.Operation.CreateDid == nil {
		t.Fatal("expected the decoded wire operation to carry a CreateDid variant")
	}
}

func TestScanTimedOperationRejectsMalformedID(t *testing.T) {
	scanner := fakeScanner{id: "not-a-uuid", wireBytes: []byte{}}
	if _, err := scanTimedOperation(scanner); err == nil {
		t.Fatal("expected an error for a malformed id")
	}
}

func TestNullableBytesCollapsesEmptyToNil(t *testing.T) {
	if got := nullableBytes(nil); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
	if got := nullableBytes([]byte{}); got != nil {
		t.Fatalf("expected nil for empty slice, got %v", got)
	}
	in := []byte{1, 2, 3}
	if got := nullableBytes(in); len(got) != 3 {
		t.Fatalf("expected non-empty bytes preserved, got %v", got)
	}
}

func TestSchemaDeclaresExpectedTables(t *testing.T) {
	for _, table := range []string{"prism_raw_operations", "prism_indexed_operations", "prism_dlt_cursor"} {
		if !strings.Contains(Schema, table) {
			t.Fatalf("expected schema to declare table %s", table)
		}
	}
}

var _ prismrepo.OperationRepository = (*Store)(nil)
