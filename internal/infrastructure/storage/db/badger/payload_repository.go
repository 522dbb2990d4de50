package dbbadger

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	log "github.com/sirupsen/logrus"
	"github.com/timshannon/badgerhold/v4"
	"github.com/vulpemventures/custody/internal/core/domain"
)

type payloadDTO struct {
	Guid      string
	Payload   string
	UpdatedAt int64
}

type payloadRepository struct {
	store    *badgerhold.Store
	chEvents chan domain.PayloadEvent
	lock     *sync.Mutex
	closed   bool

	log func(format string, a ...interface{})
}

func NewPayloadRepository(store *badgerhold.Store) domain.PayloadRepository {
	return newPayloadRepository(store)
}

func newPayloadRepository(store *badgerhold.Store) *payloadRepository {
	chEvents := make(chan domain.PayloadEvent, 10)
	lock := &sync.Mutex{}
	logFn := func(format string, a ...interface{}) {
		format = fmt.Sprintf("payload repository: %s", format)
		log.Debugf(format, a...)
	}
	return &payloadRepository{
		store:    store,
		chEvents: chEvents,
		lock:     lock,
		log:      logFn,
	}
}

func (r *payloadRepository) SavePayload(
	ctx context.Context, guid, payload string,
) error {
	dto := payloadDTO{
		Guid:      guid,
		Payload:   payload,
		UpdatedAt: time.Now().Unix(),
	}

	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = r.store.TxUpsert(tx, guid, dto)
	} else {
		err = r.store.Upsert(guid, dto)
	}
	if err != nil {
		return err
	}

	r.log("saved payload of wallet %s", guid)
	go r.publishEvent(domain.PayloadEvent{
		EventType: domain.PayloadSaved,
		Guid:      guid,
	})
	return nil
}

func (r *payloadRepository) GetPayload(
	ctx context.Context, guid string,
) (string, error) {
	dto, err := r.getPayload(ctx, guid)
	if err != nil {
		return "", err
	}
	return dto.Payload, nil
}

func (r *payloadRepository) DeletePayload(
	ctx context.Context, guid string,
) error {
	if _, err := r.getPayload(ctx, guid); err != nil {
		return err
	}

	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = r.store.TxDelete(tx, guid, payloadDTO{})
	} else {
		err = r.store.Delete(guid, payloadDTO{})
	}
	if err != nil {
		return err
	}

	r.log("deleted payload of wallet %s", guid)
	go r.publishEvent(domain.PayloadEvent{
		EventType: domain.PayloadDeleted,
		Guid:      guid,
	})
	return nil
}

func (r *payloadRepository) ListGuids(ctx context.Context) ([]string, error) {
	var dtos []payloadDTO

	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = r.store.TxFind(tx, &dtos, nil)
	} else {
		err = r.store.Find(&dtos, nil)
	}
	if err != nil {
		return nil, err
	}

	guids := make([]string, 0, len(dtos))
	for _, dto := range dtos {
		guids = append(guids, dto.Guid)
	}
	sort.Strings(guids)
	return guids, nil
}

func (r *payloadRepository) getPayload(
	ctx context.Context, guid string,
) (*payloadDTO, error) {
	var err error
	var dto payloadDTO

	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = r.store.TxGet(tx, guid, &dto)
	} else {
		err = r.store.Get(guid, &dto)
	}
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrPayloadNotFound
		}
		return nil, err
	}

	return &dto, nil
}

func (r *payloadRepository) publishEvent(event domain.PayloadEvent) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.closed {
		return
	}

	r.log("publish event %s", event.EventType)
	r.chEvents <- event

}

func (r *payloadRepository) reset() {
	if err := r.store.Badger().DropAll(); err != nil {
		r.log("reset: %s", err)
	}
}

func (r *payloadRepository) close() {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	r.store.Close()
	close(r.chEvents)
}
