package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/attest-cli/internal/core/domain"
	"github.com/custodia-labs/attest-cli/internal/core/ports/driven"
)

// connectionStore implements driven.ConnectionStore.
type connectionStore struct {
	store *Store
}

var _ driven.ConnectionStore = (*connectionStore)(nil)

const connectionColumns = `id, name, active, source_url, source_api_key,
	upstream_access_token, upstream_refresh_token, upstream_token_expires_at,
	upstream_source_id, user_resource_id, device_resource_id, created_at, updated_at`

// Save stores or updates a connection.
func (s *connectionStore) Save(ctx context.Context, conn domain.Connection) error {
	now := time.Now().UTC()
	if conn.CreatedAt.IsZero() {
		conn.CreatedAt = now
	}
	conn.UpdatedAt = now

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO connections (id, name, active, source_url, source_api_key,
			upstream_access_token, upstream_refresh_token, upstream_token_expires_at,
			upstream_source_id, user_resource_id, device_resource_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			active = excluded.active,
			source_url = excluded.source_url,
			source_api_key = excluded.source_api_key,
			upstream_access_token = excluded.upstream_access_token,
			upstream_refresh_token = excluded.upstream_refresh_token,
			upstream_token_expires_at = excluded.upstream_token_expires_at,
			upstream_source_id = excluded.upstream_source_id,
			user_resource_id = excluded.user_resource_id,
			device_resource_id = excluded.device_resource_id,
			updated_at = excluded.updated_at
	`, conn.ID, conn.Name, conn.Active, conn.SourceURL, conn.SourceAPIKey,
		nullString(conn.Upstream.AccessToken), nullString(conn.Upstream.RefreshToken),
		nullTime(conn.Upstream.ExpiresAt),
		conn.UpstreamSourceID, conn.UserResourceID, conn.DeviceResourceID,
		conn.CreatedAt, conn.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving connection: %w", err)
	}
	return nil
}

// Get retrieves a connection by ID.
func (s *connectionStore) Get(ctx context.Context, id string) (*domain.Connection, error) {
	row := s.store.db.QueryRowContext(ctx,
		`SELECT `+connectionColumns+` FROM connections WHERE id = ?`, id)
	return scanConnection(row)
}

// Delete removes a connection.
func (s *connectionStore) Delete(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, `DELETE FROM connections WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting connection: %w", err)
	}
	return nil
}

// List returns all connections ordered by creation time.
func (s *connectionStore) List(ctx context.Context) ([]domain.Connection, error) {
	return s.list(ctx, `SELECT `+connectionColumns+` FROM connections ORDER BY created_at`)
}

// ListActive returns connections with active=1.
func (s *connectionStore) ListActive(ctx context.Context) ([]domain.Connection, error) {
	return s.list(ctx, `SELECT `+connectionColumns+` FROM connections WHERE active = 1 ORDER BY created_at`)
}

func (s *connectionStore) list(ctx context.Context, query string) ([]domain.Connection, error) {
	rows, err := s.store.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing connections: %w", err)
	}
	defer rows.Close()

	var connections []domain.Connection
	for rows.Next() {
		conn, err := scanConnection(rows)
		if err != nil {
			return nil, err
		}
		connections = append(connections, *conn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating connections: %w", err)
	}
	return connections, nil
}

// SaveCredentials updates a connection's upstream token triple and returns
// the updated connection. The write touches only this connection's row.
func (s *connectionStore) SaveCredentials(ctx context.Context, id string, creds domain.UpstreamCredentials) (*domain.Connection, error) {
	res, err := s.store.db.ExecContext(ctx, `
		UPDATE connections SET
			upstream_access_token = ?,
			upstream_refresh_token = ?,
			upstream_token_expires_at = ?,
			updated_at = ?
		WHERE id = ?
	`, nullString(creds.AccessToken), nullString(creds.RefreshToken),
		nullTime(creds.ExpiresAt), time.Now().UTC(), id)
	if err != nil {
		return nil, fmt.Errorf("saving credentials: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("saving credentials: %w", err)
	}
	if affected == 0 {
		return nil, domain.ErrNotFound
	}

	return s.Get(ctx, id)
}

// SetActive toggles whether a connection participates in sync runs.
func (s *connectionStore) SetActive(ctx context.Context, id string, active bool) error {
	res, err := s.store.db.ExecContext(ctx,
		`UPDATE connections SET active = ?, updated_at = ? WHERE id = ?`,
		active, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("setting active flag: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("setting active flag: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanConnection(row scanner) (*domain.Connection, error) {
	var conn domain.Connection
	var accessToken, refreshToken sql.NullString
	var expiresAt, createdAt, updatedAt sql.NullTime

	err := row.Scan(&conn.ID, &conn.Name, &conn.Active, &conn.SourceURL, &conn.SourceAPIKey,
		&accessToken, &refreshToken, &expiresAt,
		&conn.UpstreamSourceID, &conn.UserResourceID, &conn.DeviceResourceID,
		&createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning connection: %w", err)
	}

	conn.Upstream.AccessToken = accessToken.String
	conn.Upstream.RefreshToken = refreshToken.String
	if expiresAt.Valid {
		conn.Upstream.ExpiresAt = expiresAt.Time
	}
	if createdAt.Valid {
		conn.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		conn.UpdatedAt = updatedAt.Time
	}
	return &conn, nil
}

// nullString converts empty strings to NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullTime converts zero times to NULL.
func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
