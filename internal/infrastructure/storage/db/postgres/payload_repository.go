package postgresdb

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/vulpemventures/custody/internal/core/domain"
)

const (
	upsertPayloadQuery = `INSERT INTO wallet_payload (guid, payload, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (guid) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`
	selectPayloadQuery = `SELECT payload FROM wallet_payload WHERE guid = $1`
	deletePayloadQuery = `DELETE FROM wallet_payload WHERE guid = $1`
	selectGuidsQuery   = `SELECT guid FROM wallet_payload ORDER BY guid`
	resetPayloadsQuery = `TRUNCATE TABLE wallet_payload`
)

type payloadRepositoryPg struct {
	pgxPool  *pgxpool.Pool
	chLock   *sync.Mutex
	chEvents chan domain.PayloadEvent
	closed   bool
}

func NewPayloadRepositoryPgImpl(pgxPool *pgxpool.Pool) domain.PayloadRepository {
	return newPayloadRepositoryPgImpl(pgxPool)
}

func newPayloadRepositoryPgImpl(pgxPool *pgxpool.Pool) *payloadRepositoryPg {
	return &payloadRepositoryPg{
		pgxPool:  pgxPool,
		chLock:   &sync.Mutex{},
		chEvents: make(chan domain.PayloadEvent),
	}
}

func (r *payloadRepositoryPg) SavePayload(
	ctx context.Context, guid, payload string,
) error {
	if _, err := r.pgxPool.Exec(
		ctx, upsertPayloadQuery, guid, payload, time.Now().Unix(),
	); err != nil {
		return err
	}

	go r.publishEvent(domain.PayloadEvent{
		EventType: domain.PayloadSaved,
		Guid:      guid,
	})
	return nil
}

func (r *payloadRepositoryPg) GetPayload(
	ctx context.Context, guid string,
) (string, error) {
	var payload string
	if err := r.pgxPool.QueryRow(
		ctx, selectPayloadQuery, guid,
	).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrPayloadNotFound
		}
		return "", err
	}
	return payload, nil
}

func (r *payloadRepositoryPg) DeletePayload(
	ctx context.Context, guid string,
) error {
	var tag pgconn.CommandTag
	tag, err := r.pgxPool.Exec(ctx, deletePayloadQuery, guid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() <= 0 {
		return domain.ErrPayloadNotFound
	}

	go r.publishEvent(domain.PayloadEvent{
		EventType: domain.PayloadDeleted,
		Guid:      guid,
	})
	return nil
}

func (r *payloadRepositoryPg) ListGuids(ctx context.Context) ([]string, error) {
	rows, err := r.pgxPool.Query(ctx, selectGuidsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	guids := make([]string, 0)
	for rows.Next() {
		var guid string
		if err := rows.Scan(&guid); err != nil {
			return nil, err
		}
		guids = append(guids, guid)
	}
	return guids, rows.Err()
}

func (r *payloadRepositoryPg) publishEvent(event domain.PayloadEvent) {
	r.chLock.Lock()
	defer r.chLock.Unlock()

	if r.closed {
		return
	}
	r.chEvents <- event
}

func (r *payloadRepositoryPg) reset(ctx context.Context) error {
	_, err := r.pgxPool.Exec(ctx, resetPayloadsQuery)
	return err
}

func (r *payloadRepositoryPg) close() {
	r.chLock.Lock()
	defer r.chLock.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	close(r.chEvents)
}
