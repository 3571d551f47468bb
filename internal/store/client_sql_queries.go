// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	sq "github.com/Masterminds/squirrel"
)

const recordColumns = `id, payload, payload_hash, owner, local_version, remote_version, sync_state,
	last_local_modified, last_remote_modified, deleted,
	conflict_version, conflict_payload, conflict_deleted, conflict_modified_at, last_error`

const (
	getRecordByID = `SELECT ` + recordColumns + `
		FROM records
		WHERE id = ?;`

	upsertRecord = `INSERT INTO records (` + recordColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			payload = excluded.payload,
			payload_hash = excluded.payload_hash,
			owner = excluded.owner,
			local_version = excluded.local_version,
			remote_version = excluded.remote_version,
			sync_state = excluded.sync_state,
			last_local_modified = excluded.last_local_modified,
			last_remote_modified = excluded.last_remote_modified,
			deleted = excluded.deleted,
			conflict_version = excluded.conflict_version,
			conflict_payload = excluded.conflict_payload,
			conflict_deleted = excluded.conflict_deleted,
			conflict_modified_at = excluded.conflict_modified_at,
			last_error = excluded.last_error;`

	deleteRecord = `DELETE FROM records WHERE id = ?;`

	countByState = `SELECT sync_state, deleted, COUNT(*)
		FROM records
		GROUP BY sync_state, deleted;`

	getMeta = `SELECT value FROM sync_meta WHERE key = ?;`

	setMeta = `INSERT INTO sync_meta (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value;`
)

// psql is the statement builder for SQLite's "?" placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// buildListQuery builds the record listing for filter. Tombstones are
// excluded unless requested.
func buildListQuery(filter listFilter) (string, []any, error) {
	query := psql.Select(recordColumns).From("records")

	if len(filter.States) > 0 {
		states := make([]string, 0, len(filter.States))
		for _, s := range filter.States {
			states = append(states, string(s))
		}
		query = query.Where(sq.Eq{"sync_state": states})
	}
	if filter.Owner != "" {
		query = query.Where(sq.Eq{"owner": filter.Owner})
	}
	if !filter.IncludeDeleted {
		query = query.Where(sq.Eq{"deleted": false})
	}
	if filter.OnlyDeleted {
		query = query.Where(sq.Eq{"deleted": true})
	}

	return query.OrderBy("id").ToSql()
}
