package session

import "sync"

// Registry é a fonte única de verdade sobre quais salas existem agora.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*GameRoom
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]*GameRoom),
	}
}

func (r *Registry) Insert(room *GameRoom) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rooms[room.ID] = room
}

// Get devolve a sala ou nil. room_id desconhecido ou já removido não é erro:
// a corrida entre ação e destruição da sala é esperada.
func (r *Registry) Get(roomID string) *GameRoom {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rooms[roomID]
}

// Remove tira a sala do registro. Idempotente: remover uma sala já removida
// é um no-op e retorna false.
func (r *Registry) Remove(roomID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[roomID]; !ok {
		return false
	}
	delete(r.rooms, roomID)
	return true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
