package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prism-network/prism-index/internal/prismcrypto"
	"github.com/prism-network/prism-index/internal/prismdid"
	"github.com/prism-network/prism-index/internal/prismop"
	"github.com/prism-network/prism-index/internal/prismrepo"
	"github.com/prism-network/prism-index/internal/prismstate"
)

// Store is a pgxpool-backed implementation of prismrepo.OperationRepository
// and prismrepo.DltCursorRepository.
type Store struct {
	pool *pgxpool.Pool
}

// Open connects to dsn and verifies the connection with a ping.
func Open(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return &Store{pool: pool}, nil
}

func NewStore(pool *pgxpool.Pool) *Store { return &Store{pool: pool} }

func (s *Store) Close() { s.pool.Close() }

func (s *Store) InsertRawOperations(ctx context.Context, batch []prismrepo.TimedOperation) error {
	if len(batch) == 0 {
		return nil
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: begin insert raw operations: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, row := range batch {
		_, err := tx.Exec(ctx, `
			INSERT INTO prism_raw_operations
				(id, block_number, slot_number, cbt, absn, osn, signed_with, signature, operation_wire)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (id) DO NOTHING`,
			row.ID.String(),
			row.Metadata.Block.BlockNumber,
			row.Metadata.Block.SlotNumber,
			row.Metadata.Block.Cbt,
			row.Metadata.Block.Absn,
			row.Metadata.Osn,
			row.Signed.SignedWith,
			row.Signed.Signature,
			row.Signed.Operation.CanonicalBytes(),
		)
		if err != nil {
			return fmt.Errorf("postgres: insert raw operation %s: %w", row.ID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit insert raw operations: %w", err)
	}
	return nil
}

func (s *Store) GetUnindexedRawOperations(ctx context.Context) ([]prismrepo.TimedOperation, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, block_number, slot_number, cbt, absn, osn, signed_with, signature, operation_wire
		FROM prism_raw_operations
		WHERE is_indexed = FALSE
		ORDER BY block_number, absn, osn
		LIMIT 500`)
	if err != nil {
		return nil, fmt.Errorf("postgres: query unindexed raw operations: %w", err)
	}
	defer rows.Close()

	var out []prismrepo.TimedOperation
	for rows.Next() {
		row, err := scanTimedOperation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *Store) GetVdrRawOperationByOperationHash(ctx context.Context, hash []byte) (prismrepo.TimedOperation, bool, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT r.id, r.block_number, r.slot_number, r.cbt, r.absn, r.osn, r.signed_with, r.signature, r.operation_wire
		FROM prism_raw_operations r
		JOIN prism_indexed_operations i ON i.raw_operation_id = r.id
		WHERE i.kind = 1 AND i.operation_hash = $1`, hash)

	op, err := scanTimedOperation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return prismrepo.TimedOperation{}, false, nil
		}
		return prismrepo.TimedOperation{}, false, fmt.Errorf("postgres: query vdr operation by hash: %w", err)
	}
	return op, true, nil
}

func (s *Store) InsertIndexedOperations(ctx context.Context, rows []prismrepo.IndexedOperation) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: begin insert indexed operations: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, row := range rows {
		var didSuffix []byte
		if !row.Did.Suffix.IsZero() {
			didSuffix = row.Did.Suffix.Bytes()
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO prism_indexed_operations
				(raw_operation_id, kind, did_suffix, operation_hash, init_operation_hash, prev_operation_hash)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (raw_operation_id) DO UPDATE SET
				kind = EXCLUDED.kind,
				did_suffix = EXCLUDED.did_suffix,
				operation_hash = EXCLUDED.operation_hash,
				init_operation_hash = EXCLUDED.init_operation_hash,
				prev_operation_hash = EXCLUDED.prev_operation_hash`,
			row.RawOperationID.String(),
			int16(row.Kind),
			didSuffix,
			nullableBytes(row.OperationHash),
			nullableBytes(row.InitOperationHash),
			nullableBytes(row.PrevOperationHash),
		)
		if err != nil {
			return fmt.Errorf("postgres: insert indexed operation %s: %w", row.RawOperationID, err)
		}

		_, err = tx.Exec(ctx, `UPDATE prism_raw_operations SET is_indexed = TRUE WHERE id = $1`, row.RawOperationID.String())
		if err != nil {
			return fmt.Errorf("postgres: mark raw operation %s indexed: %w", row.RawOperationID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit insert indexed operations: %w", err)
	}
	return nil
}

func (s *Store) GetAllDids(ctx context.Context, page, pageSize uint32) (prismrepo.Paginated[prismdid.CanonicalPrismDid], error) {
	if pageSize == 0 {
		pageSize = 100
	}
	var total uint64
	if err := s.pool.QueryRow(ctx, `
		SELECT count(DISTINCT did_suffix) FROM prism_indexed_operations WHERE kind = 0`).Scan(&total); err != nil {
		return prismrepo.Paginated[prismdid.CanonicalPrismDid]{}, fmt.Errorf("postgres: count dids: %w", err)
	}

	// Ordered by most recent activity (the ledger position of the DID's
	// latest operation, compared as one (block, absn, osn) array)
	// descending, DID ascending as a tiebreak.
	rows, err := s.pool.Query(ctx, `
		SELECT t.did_suffix FROM (
			SELECT i.did_suffix,
			       max(ARRAY[r.block_number, r.absn::BIGINT, r.osn::BIGINT]) AS last_position
			FROM prism_indexed_operations i
			JOIN prism_raw_operations r ON r.id = i.raw_operation_id
			WHERE i.kind = 0
			GROUP BY i.did_suffix
		) t
		ORDER BY t.last_position DESC, t.did_suffix ASC
		LIMIT $1 OFFSET $2`, pageSize, page*pageSize)
	if err != nil {
		return prismrepo.Paginated[prismdid.CanonicalPrismDid]{}, fmt.Errorf("postgres: query dids: %w", err)
	}
	defer rows.Close()

	var items []prismdid.CanonicalPrismDid
	for rows.Next() {
		var suffix []byte
		if err := rows.Scan(&suffix); err != nil {
			return prismrepo.Paginated[prismdid.CanonicalPrismDid]{}, fmt.Errorf("postgres: scan did: %w", err)
		}
		digest, err := prismcrypto.DigestFromBytes(suffix)
		if err != nil {
			return prismrepo.Paginated[prismdid.CanonicalPrismDid]{}, fmt.Errorf("postgres: malformed did suffix: %w", err)
		}
		items = append(items, prismdid.CanonicalPrismDid{Suffix: digest})
	}
	if err := rows.Err(); err != nil {
		return prismrepo.Paginated[prismdid.CanonicalPrismDid]{}, err
	}

	return prismrepo.Paginated[prismdid.CanonicalPrismDid]{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: total,
	}, nil
}

func (s *Store) GetOperationsByDid(ctx context.Context, did prismdid.CanonicalPrismDid) ([]prismrepo.TimedOperation, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT r.id, r.block_number, r.slot_number, r.cbt, r.absn, r.osn, r.signed_with, r.signature, r.operation_wire
		FROM prism_raw_operations r
		JOIN prism_indexed_operations i ON i.raw_operation_id = r.id
		WHERE i.kind = 0 AND i.did_suffix = $1
		ORDER BY r.block_number, r.absn, r.osn`, did.Suffix.Bytes())
	if err != nil {
		return nil, fmt.Errorf("postgres: query operations by did: %w", err)
	}
	defer rows.Close()

	var out []prismrepo.TimedOperation
	for rows.Next() {
		row, err := scanTimedOperation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *Store) SetCursor(ctx context.Context, cursor prismrepo.DltCursor) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO prism_dlt_cursor (singleton, slot, block_hash, cbt)
		VALUES (TRUE, $1, $2, $3)
		ON CONFLICT (singleton) DO UPDATE SET slot = EXCLUDED.slot, block_hash = EXCLUDED.block_hash, cbt = EXCLUDED.cbt`,
		cursor.Slot, cursor.BlockHash[:], cursor.Cbt)
	if err != nil {
		return fmt.Errorf("postgres: set cursor: %w", err)
	}
	return nil
}

func (s *Store) GetCursor(ctx context.Context) (*prismrepo.DltCursor, error) {
	var cursor prismrepo.DltCursor
	var hash []byte
	err := s.pool.QueryRow(ctx, `SELECT slot, block_hash, cbt FROM prism_dlt_cursor WHERE singleton`).
		Scan(&cursor.Slot, &hash, &cursor.Cbt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("postgres: get cursor: %w", err)
	}
	copy(cursor.BlockHash[:], hash)
	return &cursor, nil
}

// pgScanner is satisfied by both pgx.Row and pgx.Rows, letting
// scanTimedOperation serve both a single-row lookup and a cursor loop.
type pgScanner interface {
	Scan(dest ...any) error
}

func scanTimedOperation(row pgScanner) (prismrepo.TimedOperation, error) {
	var (
		idStr      string
		metadata   prismstate.OperationMetadata
		signedWith string
		signature  []byte
		wireBytes  []byte
	)
	if err := row.Scan(&idStr, &metadata.Block.BlockNumber, &metadata.Block.SlotNumber, &metadata.Block.Cbt, &metadata.Block.Absn, &metadata.Osn, &signedWith, &signature, &wireBytes); err != nil {
		return prismrepo.TimedOperation{}, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return prismrepo.TimedOperation{}, fmt.Errorf("postgres: malformed raw operation id %q: %w", idStr, err)
	}

	op, err := prismop.ParseWirePrismOperation(wireBytes)
	if err != nil {
		return prismrepo.TimedOperation{}, fmt.Errorf("postgres: decode stored operation: %w", err)
	}

	return prismrepo.TimedOperation{
		ID:       prismrepo.RawOperationID(id),
		Metadata: metadata,
		Signed: prismop.WireSignedPrismOperation{
			SignedWith: signedWith,
			Signature:  signature,
			Operation:  op,
		},
	}, nil
}

func nullableBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return b
}

var _ prismrepo.OperationRepository = (*Store)(nil)
var _ prismrepo.DltCursorRepository = (*Store)(nil)
