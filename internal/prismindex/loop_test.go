package prismindex

import (
	"context"
	"testing"

	"github.com/prism-network/prism-index/internal/prismop"
	"github.com/prism-network/prism-index/internal/prismrepo"
	"github.com/prism-network/prism-index/internal/prismstate"
)

type fakeBlockSource struct {
	blocks []PublishedBlock
}

func (f *fakeBlockSource) Receive(ctx context.Context) (<-chan PublishedBlock, error) {
	ch := make(chan PublishedBlock, len(f.blocks))
	for _, b := range f.blocks {
		ch <- b
	}
	close(ch)
	return ch, nil
}

func TestRunSyncLoopDropsEmptyOperationsAndBatchesByBlock(t *testing.T) {
	repo := newFakeRepo()
	wire := prismop.NewCreateDidOperation([]prismop.NewKeyInput{
		{ID: "master0", Usage: prismop.KeyUsageMaster, Curve: "secp256k1", CompressedKeyData: make([]byte, 33)},
	}, nil, nil)

	source := &fakeBlockSource{blocks: []PublishedBlock{
		{
			BlockMetadata: prismstate.BlockMetadata{BlockNumber: 100},
			Operations: []prismop.WireSignedPrismOperation{
				wireSigned(wire),
				{}, // empty oneof, must be dropped
			},
		},
	}}

	if err := RunSyncLoop(context.Background(), repo, source); err != nil {
		t.Fatalf("RunSyncLoop: %v", err)
	}
	if len(repo.insertedRaw) != 1 {
		t.Fatalf("expected 1 batch insert, got %d", len(repo.insertedRaw))
	}
	if len(repo.insertedRaw[0]) != 1 {
		t.Fatalf("expected the empty operation to be dropped, got %d rows", len(repo.insertedRaw[0]))
	}
	if repo.insertedRaw[0][0].Metadata.Block.BlockNumber != 100 {
		t.Fatal("expected the row's metadata to carry the block's metadata")
	}
}

func TestRunSyncLoopSkipsBlockWithNoClassifiableOperations(t *testing.T) {
	repo := newFakeRepo()
	source := &fakeBlockSource{blocks: []PublishedBlock{
		{
			BlockMetadata: prismstate.BlockMetadata{BlockNumber: 101},
			Operations:    []prismop.WireSignedPrismOperation{{}},
		},
	}}

	if err := RunSyncLoop(context.Background(), repo, source); err != nil {
		t.Fatalf("RunSyncLoop: %v", err)
	}
	if len(repo.insertedRaw) != 0 {
		t.Fatalf("expected no insert for a block with nothing classifiable, got %d", len(repo.insertedRaw))
	}
}

func TestRunSyncLoopContinuesPastInsertError(t *testing.T) {
	repo := newFakeRepo()
	repo.insertRawErr = context.DeadlineExceeded
	wire := prismop.NewCreateDidOperation([]prismop.NewKeyInput{
		{ID: "master0", Usage: prismop.KeyUsageMaster, Curve: "secp256k1", CompressedKeyData: make([]byte, 33)},
	}, nil, nil)

	source := &fakeBlockSource{blocks: []PublishedBlock{
		{BlockMetadata: prismstate.BlockMetadata{BlockNumber: 1}, Operations: []prismop.WireSignedPrismOperation{wireSigned(wire)}},
		{BlockMetadata: prismstate.BlockMetadata{BlockNumber: 2}, Operations: []prismop.WireSignedPrismOperation{wireSigned(wire)}},
	}}

	if err := RunSyncLoop(context.Background(), repo, source); err != nil {
		t.Fatalf("RunSyncLoop should not propagate a per-block insert error: %v", err)
	}
	if len(repo.insertedRaw) != 2 {
		t.Fatalf("expected both blocks to be attempted despite the first failing, got %d", len(repo.insertedRaw))
	}
}

var _ prismrepo.OperationRepository = (*fakeRepo)(nil)
