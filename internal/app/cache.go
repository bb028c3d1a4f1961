package app

import (
	"sync"

	"order-desk/internal/core"
)

// catalogCache remembers every entity the catalog returned so selections are
// only ever made from real catalog entries.
type catalogCache struct {
	mu       sync.RWMutex
	refs     map[core.RefKind]map[int]core.Reference
	products map[int]core.Product
}

func newCatalogCache() *catalogCache {
	c := &catalogCache{}
	c.reset()
	return c
}

func (c *catalogCache) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refs = make(map[core.RefKind]map[int]core.Reference)
	c.products = make(map[int]core.Product)
}

func (c *catalogCache) putRefs(refs []core.Reference) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range refs {
		byID, ok := c.refs[r.Kind]
		if !ok {
			byID = make(map[int]core.Reference)
			c.refs[r.Kind] = byID
		}
		byID[r.ID] = r
	}
}

func (c *catalogCache) ref(kind core.RefKind, id int) (core.Reference, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.refs[kind][id]
	return r, ok
}

func (c *catalogCache) putClients(clients []core.Client) {
	refs := make([]core.Reference, len(clients))
	for i, cl := range clients {
		refs[i] = cl.Ref()
	}
	c.putRefs(refs)
}

func (c *catalogCache) putProducts(products []core.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range products {
		c.products[p.ID] = p
	}
}

func (c *catalogCache) product(id int) (core.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.products[id]
	return p, ok
}
