package snapshot

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/snapshot/internal/cache"
)

// MaxPassResources bounds the number of effect passes a scheduler keeps.
// Five effect modes, four color modes and four blur modes give at most 80
// distinct material hashes, so a full cache never evicts in practice.
const MaxPassResources = 80

// Effect material passes.
const (
	// PassEffect applies the tone effect and color mode.
	PassEffect = 0
	// PassBlur applies one directional blur step.
	PassBlur = 1
)

// passCache maps material hashes to compiled effect passes.
type passCache struct {
	device Device
	log    *slog.Logger
	c      *cache.Cache[uint16, Material]
}

func newPassCache(device Device, log *slog.Logger) *passCache {
	c := cache.New[uint16, Material](MaxPassResources)
	c.OnEvict(func(_ uint16, m Material) {
		if m != nil {
			m.Destroy()
		}
	})
	return &passCache{device: device, log: log, c: c}
}

// get returns the effect pass for cfg, creating it on a miss or when the
// cached entry's resources are gone.
func (p *passCache) get(cfg RequestConfig) (Material, error) {
	hash := cfg.MaterialHash()
	create := func() (Material, error) {
		kw := cfg.Keywords()
		p.log.Debug("snapshot: creating effect pass", "hash", hash, "keywords", kw)
		m, err := p.device.CreateEffectMaterial(kw)
		if err != nil {
			return nil, fmt.Errorf("snapshot: create effect pass %v: %w", kw, err)
		}
		return m, nil
	}

	m, err := p.c.GetOrCreate(hash, create)
	if err != nil || m.Valid() {
		return m, err
	}
	p.log.Debug("snapshot: effect pass invalidated", "hash", hash, "material", m.Name())
	p.c.Delete(hash)
	return p.c.GetOrCreate(hash, create)
}

func (p *passCache) len() int { return p.c.Len() }

func (p *passCache) stats() cache.Stats { return p.c.Stats() }

func (p *passCache) clear() { p.c.Clear() }
