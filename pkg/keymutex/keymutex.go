// Package keymutex provee exclusión mutua por clave con espera acotada.
// El motor de ledger lo usa para serializar las mutaciones de saldo de una
// misma entidad: dos operaciones sobre la misma clave se ejecutan una después
// de la otra; claves distintas nunca se bloquean entre sí.
package keymutex

import (
	"context"
	"sync"
	"time"
)

// KeyMutex mapa de mutex por clave. Un lock que no se consigue dentro del
// timeout devuelve false en lugar de colgar al worker.
type KeyMutex struct {
	mu      sync.Mutex
	locks   map[string]*keyLock
	timeout time.Duration
}

type keyLock struct {
	sem  chan struct{} // capacidad 1: ocupado = lock tomado
	refs int
}

// DefaultTimeout espera máxima por defecto para adquirir un lock.
const DefaultTimeout = 3 * time.Second

// New construye un KeyMutex. timeout <= 0 usa DefaultTimeout.
func New(timeout time.Duration) *KeyMutex {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &KeyMutex{
		locks:   make(map[string]*keyLock),
		timeout: timeout,
	}
}

// Lock intenta adquirir el lock de la clave. Devuelve false si se agota el
// timeout o se cancela el contexto antes de conseguirlo.
func (km *KeyMutex) Lock(ctx context.Context, key string) bool {
	km.mu.Lock()
	kl, ok := km.locks[key]
	if !ok {
		kl = &keyLock{sem: make(chan struct{}, 1)}
		km.locks[key] = kl
	}
	kl.refs++
	km.mu.Unlock()

	timer := time.NewTimer(km.timeout)
	defer timer.Stop()

	select {
	case kl.sem <- struct{}{}:
		return true
	case <-timer.C:
	case <-ctx.Done():
	}
	km.release(key, kl)
	return false
}

// Unlock libera el lock de la clave. Debe llamarse solo tras un Lock exitoso.
func (km *KeyMutex) Unlock(key string) {
	km.mu.Lock()
	kl, ok := km.locks[key]
	km.mu.Unlock()
	if !ok {
		return
	}
	<-kl.sem
	km.release(key, kl)
}

// release decrementa el contador y limpia la entrada cuando nadie la espera,
// para que el mapa no crezca con claves muertas.
func (km *KeyMutex) release(key string, kl *keyLock) {
	km.mu.Lock()
	kl.refs--
	if kl.refs == 0 {
		delete(km.locks, key)
	}
	km.mu.Unlock()
}
