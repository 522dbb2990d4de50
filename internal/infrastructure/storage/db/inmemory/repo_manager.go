package inmemory

import (
	"sync"
	"time"

	"github.com/vulpemventures/custody/internal/core/domain"
	"github.com/vulpemventures/custody/internal/core/ports"
)

type repoManager struct {
	payloadRepository *payloadRepository

	payloadEventHandlers *handlerMap
}

func NewRepoManager() ports.RepoManager {
	payloadRepo := newPayloadRepository()

	rm := &repoManager{
		payloadRepository:    payloadRepo,
		payloadEventHandlers: newHandlerMap(),
	}

	go rm.listenToPayloadEvents()

	return rm
}

func (rm *repoManager) PayloadRepository() domain.PayloadRepository {
	return rm.payloadRepository
}

func (rm *repoManager) RegisterHandlerForPayloadEvent(
	eventType domain.PayloadEventType, handler ports.PayloadEventHandler,
) {
	rm.payloadEventHandlers.set(int(eventType), handler)
}

func (rm *repoManager) listenToPayloadEvents() {
	for event := range rm.payloadRepository.chEvents {
		time.Sleep(time.Millisecond)

		if handlers, ok := rm.payloadEventHandlers.get(int(event.EventType)); ok {
			for i := range handlers {
				handler := handlers[i]
				go handler.(ports.PayloadEventHandler)(event)
			}
		}
	}
}

func (rm *repoManager) Reset() {
	rm.payloadRepository.reset()
}

func (rm *repoManager) Close() {
	rm.payloadRepository.close()
}

// handlerMap is a util type to prevent race conditions when registering
// or retrieving handlers for events.
type handlerMap struct {
	handlersByEventType map[int][]interface{}
	lock                *sync.RWMutex
}

func newHandlerMap() *handlerMap {
	return &handlerMap{
		handlersByEventType: make(map[int][]interface{}),
		lock:                &sync.RWMutex{},
	}
}

func (m *handlerMap) set(key int, val interface{}) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.handlersByEventType[key] = append(m.handlersByEventType[key], val)
}

func (m *handlerMap) get(key int) ([]interface{}, bool) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	val, ok := m.handlersByEventType[key]
	return val, ok
}
