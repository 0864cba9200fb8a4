// Package mirror copies persisted registrations into a relational table.
//
// The key-value store stays the source of truth. A mirror failure is never rolled back
// into it, so the two stores can diverge until an operator replays the missing rows.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/jornageo/registration/internal/models"
	"github.com/jornageo/registration/pkg/database"
	"github.com/jornageo/registration/pkg/secrets"
)

const insertRegistration = `INSERT INTO registrations
	(email, registration_id, name, organization, position, phone, management_area, hands_on, "timestamp", created_at, status)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

// SecretFetcher returns the database credentials.
type SecretFetcher interface {
	FetchDB(ctx context.Context, name string) (*secrets.DBSecret, error)
}

// Tx is the part of pgx.Tx the writer needs.
type Tx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Conn is a single scoped connection.
type Conn interface {
	BeginTx(ctx context.Context) (Tx, error)
	Close(ctx context.Context) error
}

// Connector opens a Conn for dsn.
type Connector func(ctx context.Context, dsn string) (Conn, error)

// Config selects the secret and connection options.
type Config struct {
	SecretName  string
	DefaultPort string
	SSLMode     string
}

// Writer mirrors one registration per call.
type Writer struct {
	secrets SecretFetcher
	connect Connector
	cfg     Config
	logger  *zap.Logger
}

// NewWriter creates a mirror writer. A nil connect uses PgxConnector.
func NewWriter(sf SecretFetcher, connect Connector, cfg Config, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if connect == nil {
		connect = PgxConnector(logger)
	}
	return &Writer{secrets: sf, connect: connect, cfg: cfg, logger: logger}
}

// Write fetches credentials, opens a connection, inserts one row and commits.
// The connection is closed on every return path.
func (w *Writer) Write(ctx context.Context, reg *models.Registration) error {
	sec, err := w.secrets.FetchDB(ctx, w.cfg.SecretName)
	if err != nil {
		return fmt.Errorf("fetch db secret: %w", err)
	}

	conn, err := w.connect(ctx, sec.DSN(w.cfg.DefaultPort, w.cfg.SSLMode))
	if err != nil {
		return fmt.Errorf("open connection: %w", err)
	}
	defer func() {
		if cerr := conn.Close(context.WithoutCancel(ctx)); cerr != nil {
			w.logger.Warn("close mirror connection", zap.Error(cerr))
		}
	}()

	tx, err := conn.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			if rerr := tx.Rollback(context.WithoutCancel(ctx)); rerr != nil && !errors.Is(rerr, pgx.ErrTxClosed) {
				w.logger.Warn("rollback mirror insert", zap.Error(rerr))
			}
		}
	}()

	if _, err := tx.Exec(ctx, insertRegistration, rowArgs(reg)...); err != nil {
		return fmt.Errorf("insert registration: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}

func rowArgs(reg *models.Registration) []any {
	return []any{
		reg.Email,
		reg.RegistrationID,
		reg.Name,
		reg.Organization,
		reg.Position,
		reg.Phone,
		reg.ManagementArea,
		reg.HandsOn,
		parseInstant(reg.Timestamp),
		parseInstant(reg.CreatedAt),
		reg.Status,
	}
}

// parseInstant falls back to the raw string so the server does the cast.
func parseInstant(s string) any {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return s
	}
	return t
}

type pgxConn struct {
	*pgx.Conn
}

func (c pgxConn) BeginTx(ctx context.Context) (Tx, error) {
	return c.Conn.Begin(ctx)
}

// PgxConnector opens real connections via database.Connect.
func PgxConnector(logger *zap.Logger) Connector {
	return func(ctx context.Context, dsn string) (Conn, error) {
		conn, err := database.Connect(ctx, dsn, logger)
		if err != nil {
			return nil, err
		}
		return pgxConn{Conn: conn}, nil
	}
}
