package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quesarte/queseria-api/pkg/config"
	"github.com/quesarte/queseria-api/pkg/logger"
)

// Cache caché de respuestas GET sobre Redis, clave = URL completa. Opcional:
// con client nil todas las operaciones son no-op y el sistema funciona igual.
// Nunca participa en la corrección del ledger, solo en lecturas.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// New conecta a Redis según configuración. Si Redis no está configurado o no
// responde, devuelve un caché deshabilitado en lugar de error: el caché es
// mejora de lectura, no dependencia dura.
func New(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) *Cache {
	if !cfg.Enabled() {
		return &Cache{log: log}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis no disponible, caché deshabilitado")
		_ = client.Close()
		return &Cache{log: log}
	}
	return &Cache{
		client: client,
		ttl:    time.Duration(cfg.TTLSecs) * time.Second,
		log:    log,
	}
}

// Enabled indica si hay backend de caché activo.
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// Get devuelve el valor cacheado para la clave, si existe.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if !c.Enabled() {
		return nil, false
	}
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Msg("cache get")
		}
		return nil, false
	}
	return val, true
}

// Set guarda el valor con el TTL configurado.
func (c *Cache) Set(ctx context.Context, key string, value []byte) {
	if !c.Enabled() {
		return
	}
	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Msg("cache set")
	}
}

// InvalidatePrefix borra todas las claves que empiezan con el prefijo.
// Se invoca tras cada escritura para que las lecturas nunca sirvan saldos viejos.
func (c *Cache) InvalidatePrefix(ctx context.Context, prefix string) {
	if !c.Enabled() {
		return
	}
	iter := c.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.log.Warn().Err(err).Msg("cache scan")
		return
	}
	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			c.log.Warn().Err(err).Msg("cache del")
		}
	}
}

// Close cierra la conexión con Redis.
func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}
