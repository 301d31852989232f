// Package prismindex classifies raw observed operations into the DID
// document or storage-entry chain they belong to, and drives the two
// decoupled passes (ingestion, classification) that keep indexing
// resilient to out-of-order arrival.
package prismindex

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/prism-network/prism-index/internal/prismdid"
	"github.com/prism-network/prism-index/internal/prismop"
	"github.com/prism-network/prism-index/internal/prismrepo"
)

// maxChainWalkDepth bounds the storage-entry chain-to-root walk: a chain
// longer than this is treated the same as a broken one, since nothing in
// the protocol limits how many UpdateStorageEntry operations a
// misbehaving or buggy submitter can chain together.
const maxChainWalkDepth = 200

type intermediateKind int

const (
	intermediateSsi intermediateKind = iota
	intermediateVdrRoot
	intermediateVdrChild
)

// intermediateOperation is the classification of a single operation
// before a VdrChild has had its root resolved.
type intermediateOperation struct {
	kind              intermediateKind
	did               prismdid.CanonicalPrismDid
	operationHash     []byte
	prevOperationHash []byte
}

// classifyOperation inspects a single structurally validated operation
// and places it into the SSI family, the root of a VDR chain, or a VDR
// chain link still needing its root resolved. Any error here means the
// operation could not be classified and the caller should fall back to
// Ignored, matching spec's no-fatal-error rule for a single bad row.
func classifyOperation(op prismop.Operation) (intermediateOperation, error) {
	switch op.Kind {
	case prismop.OpCreateDid:
		return intermediateOperation{
			kind: intermediateSsi,
			did:  prismdid.CanonicalPrismDid{Suffix: op.Digest()},
		}, nil
	case prismop.OpUpdateDid:
		did, err := prismdid.FromSuffixHex(op.UpdateDid.ID)
		if err != nil {
			return intermediateOperation{}, err
		}
		return intermediateOperation{kind: intermediateSsi, did: did}, nil
	case prismop.OpDeactivateDid:
		did, err := prismdid.FromSuffixHex(op.DeactivateDid.ID)
		if err != nil {
			return intermediateOperation{}, err
		}
		return intermediateOperation{kind: intermediateSsi, did: did}, nil
	case prismop.OpProtocolVersionUpdate:
		did, err := prismdid.FromSuffixHex(op.ProtocolVersionUpdate.ProposerDid)
		if err != nil {
			return intermediateOperation{}, err
		}
		return intermediateOperation{kind: intermediateSsi, did: did}, nil
	case prismop.OpCreateStorageEntry:
		did, err := prismdid.FromSuffixHex(op.CreateStorageEntry.DidSuffix)
		if err != nil {
			return intermediateOperation{}, err
		}
		digest := op.Digest()
		return intermediateOperation{kind: intermediateVdrRoot, did: did, operationHash: digest.Bytes()}, nil
	case prismop.OpUpdateStorageEntry:
		digest := op.Digest()
		return intermediateOperation{
			kind:              intermediateVdrChild,
			operationHash:     digest.Bytes(),
			prevOperationHash: op.UpdateStorageEntry.PrevOperationHash.Bytes(),
		}, nil
	case prismop.OpDeactivateStorageEntry:
		digest := op.Digest()
		return intermediateOperation{
			kind:              intermediateVdrChild,
			operationHash:     digest.Bytes(),
			prevOperationHash: op.DeactivateStorageEntry.PrevOperationHash.Bytes(),
		}, nil
	default:
		return intermediateOperation{}, errUnclassifiableOperation
	}
}

// classifyRow fully classifies one raw row, resolving a VdrChild's root
// via a bounded recursive walk when needed. It never returns an error:
// anything that cannot be classified comes back as Ignored, per spec's
// "a single bad operation in a stream" rule.
func classifyRow(ctx context.Context, repo prismrepo.OperationRepository, param prismop.Parameters, row prismrepo.TimedOperation) prismrepo.IndexedOperation {
	op, err := prismop.ParseOperation(row.Signed.Operation.Operation, param)
	if err != nil {
		logrus.WithError(err).WithField("raw_operation_id", row.ID.String()).Warn("operation is ignored since it cannot be indexed")
		return prismrepo.IndexedOperation{Kind: prismrepo.IndexedIgnored, RawOperationID: row.ID}
	}

	intermediate, err := classifyOperation(op)
	if err != nil {
		logrus.WithError(err).WithField("raw_operation_id", row.ID.String()).Warn("operation is ignored since it cannot be indexed")
		return prismrepo.IndexedOperation{Kind: prismrepo.IndexedIgnored, RawOperationID: row.ID}
	}

	switch intermediate.kind {
	case intermediateSsi:
		return prismrepo.IndexedOperation{Kind: prismrepo.IndexedSsi, RawOperationID: row.ID, Did: intermediate.did}
	case intermediateVdrRoot:
		return prismrepo.IndexedOperation{
			Kind:              prismrepo.IndexedVdr,
			RawOperationID:    row.ID,
			Did:               intermediate.did,
			OperationHash:     intermediate.operationHash,
			InitOperationHash: intermediate.operationHash,
		}
	case intermediateVdrChild:
		did, initHash, found := recursivelyFindVdrRoot(ctx, repo, param, intermediate.prevOperationHash)
		if !found {
			logrus.WithField("raw_operation_id", row.ID.String()).Warn("operation is ignored since its storage chain root could not be resolved")
			return prismrepo.IndexedOperation{Kind: prismrepo.IndexedIgnored, RawOperationID: row.ID}
		}
		return prismrepo.IndexedOperation{
			Kind:              prismrepo.IndexedVdr,
			RawOperationID:    row.ID,
			Did:               did,
			OperationHash:     intermediate.operationHash,
			InitOperationHash: initHash,
			PrevOperationHash: intermediate.prevOperationHash,
		}
	default:
		return prismrepo.IndexedOperation{Kind: prismrepo.IndexedIgnored, RawOperationID: row.ID}
	}
}

// recursivelyFindVdrRoot walks prev_operation_hash links back to the
// CreateStorageEntry that started the chain, up to maxChainWalkDepth-1
// parent lookups, so a chain of at most maxChainWalkDepth operations
// (counting the one being classified) resolves. It returns found=false for a missing parent, an unparseable
// parent, a parent that isn't itself part of a VDR chain, or a chain
// that exceeds the depth cap — every one of these is "cannot be
// indexed yet", not a fatal error.
func recursivelyFindVdrRoot(ctx context.Context, repo prismrepo.OperationRepository, param prismop.Parameters, prevOperationHash []byte) (prismdid.CanonicalPrismDid, []byte, bool) {
	parentHash := prevOperationHash
	for i := 0; i < maxChainWalkDepth-1; i++ {
		if len(parentHash) != 32 {
			return prismdid.CanonicalPrismDid{}, nil, false
		}

		row, found, err := repo.GetVdrRawOperationByOperationHash(ctx, parentHash)
		if err != nil || !found {
			return prismdid.CanonicalPrismDid{}, nil, false
		}

		parentOp, err := prismop.ParseOperation(row.Signed.Operation.Operation, param)
		if err != nil {
			return prismdid.CanonicalPrismDid{}, nil, false
		}

		intermediate, err := classifyOperation(parentOp)
		if err != nil {
			return prismdid.CanonicalPrismDid{}, nil, false
		}

		switch intermediate.kind {
		case intermediateVdrRoot:
			return intermediate.did, intermediate.operationHash, true
		case intermediateVdrChild:
			parentHash = intermediate.prevOperationHash
		default:
			return prismdid.CanonicalPrismDid{}, nil, false
		}
	}
	return prismdid.CanonicalPrismDid{}, nil, false
}
