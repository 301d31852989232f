// Package chainfollower streams operations from the ledger into the
// indexer's raw-operation repository. Two sources exist: an N2N
// (node-to-node) chain-sync client and a polling source reading a
// DB-Sync-style relational projection. Both produce prismindex.PublishedBlock
// values and share a cursor-persist worker that checkpoints progress so a
// restart resumes close to where it left off instead of from genesis.
package chainfollower

import "encoding/hex"

// NetworkIdentifier selects the genesis intersection point an N2N source
// starts following from when no cursor has been persisted yet.
type NetworkIdentifier int

const (
	NetworkMainnet NetworkIdentifier = iota
	NetworkPreprod
	NetworkPreview
)

// genesisPoint is a known-good intersection point shortly before the
// PRISM method's first transaction on a given network, used to avoid an
// initial sync from the true chain origin. Preview has no such shortcut
// recorded, so it intersects at the chain origin.
type genesisPoint struct {
	slot      uint64
	blockHash [32]byte
}

func mustHash(s string) [32]byte {
	var out [32]byte
	n, err := hex.DecodeString(s)
	if err != nil || len(n) != 32 {
		panic("chainfollower: invalid genesis block hash literal")
	}
	copy(out[:], n)
	return out
}

var mainnetGenesis = genesisPoint{
	slot:      71482683,
	blockHash: mustHash("f3fd56f7e390d4e45d06bb797d83b7814b1d32c2112bc997779e34de1579fa7d"),
}

var preprodGenesis = genesisPoint{
	slot:      10718532,
	blockHash: mustHash("cb95a5effb12871b69c27c184ffb1355e6208c4071956df67248bad1cc329ca4"),
}

// sinceGenesis returns the hard-coded intersection point a fresh N2N
// source starts from for the given network. Preview (and anything else)
// has no recorded shortcut and intersects at the chain origin, signalled
// by the ok=false return.
func sinceGenesis(network NetworkIdentifier) (genesisPoint, bool) {
	switch network {
	case NetworkMainnet:
		return mainnetGenesis, true
	case NetworkPreprod:
		return preprodGenesis, true
	default:
		return genesisPoint{}, false
	}
}
