// Package postgres is the concrete storage adapter backing
// prismrepo.OperationRepository and prismrepo.DltCursorRepository, built
// on jackc/pgx/v5 against a relational schema of three tables: the raw
// operation inbox, the classification output, and a single-row cursor
// checkpoint.
package postgres

// Schema is the DDL this adapter expects to already be applied. It is
// exposed as a constant rather than run automatically, the same way a
// migration tool would own it, so that operators control when and how
// schema changes land.
const Schema = `
CREATE TABLE IF NOT EXISTS prism_raw_operations (
	id                 TEXT PRIMARY KEY,
	block_number       BIGINT NOT NULL,
	slot_number        BIGINT NOT NULL,
	cbt                TIMESTAMPTZ NOT NULL,
	absn               INTEGER NOT NULL,
	osn                INTEGER NOT NULL,
	signed_with        TEXT NOT NULL,
	signature          BYTEA NOT NULL,
	operation_wire     BYTEA NOT NULL,
	is_indexed         BOOLEAN NOT NULL DEFAULT FALSE,
	inserted_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS prism_raw_operations_unindexed_idx
	ON prism_raw_operations (block_number, absn, osn)
	WHERE is_indexed = FALSE;

CREATE TABLE IF NOT EXISTS prism_indexed_operations (
	raw_operation_id     TEXT PRIMARY KEY REFERENCES prism_raw_operations(id),
	kind                 SMALLINT NOT NULL,
	did_suffix           BYTEA,
	operation_hash       BYTEA,
	init_operation_hash  BYTEA,
	prev_operation_hash  BYTEA
);

CREATE INDEX IF NOT EXISTS prism_indexed_operations_did_idx
	ON prism_indexed_operations (did_suffix) WHERE kind = 0;

CREATE UNIQUE INDEX IF NOT EXISTS prism_indexed_operations_vdr_hash_idx
	ON prism_indexed_operations (operation_hash) WHERE kind = 1;

CREATE TABLE IF NOT EXISTS prism_dlt_cursor (
	singleton   BOOLEAN PRIMARY KEY DEFAULT TRUE CHECK (singleton),
	slot        BIGINT NOT NULL,
	block_hash  BYTEA NOT NULL,
	cbt         TIMESTAMPTZ
);
`
