package cache

import (
	"sync"

	"github.com/Falloutization/royalty/pkg/core"
)

// ThingCache indexes spawned things so the host can find them again by ID
// or by quest tag without walking the map.
type ThingCache struct {
	m      sync.Mutex
	Things map[string]*core.Thing
	Tagged map[string][]*core.Thing
}

func NewThingCache() *ThingCache {
	return &ThingCache{
		m:      sync.Mutex{},
		Things: make(map[string]*core.Thing),
		Tagged: make(map[string][]*core.Thing),
	}
}

func (c *ThingCache) Reset() {
	c.m.Lock()
	defer c.m.Unlock()
	c.Things = make(map[string]*core.Thing)
	c.Tagged = make(map[string][]*core.Thing)
}

func (c *ThingCache) Add(t *core.Thing) {
	c.m.Lock()
	defer c.m.Unlock()
	c.Things[t.ID] = t
	for _, tag := range t.QuestTags {
		c.Tagged[tag] = appendUnique(c.Tagged[tag], t)
	}
}

func (c *ThingCache) Get(id string) (*core.Thing, bool) {
	c.m.Lock()
	defer c.m.Unlock()
	if t, ok := c.Things[id]; ok {
		return t, true
	}
	return nil, false
}

// Tag adds tag to t and indexes it. Tagging twice is a no-op.
func (c *ThingCache) Tag(t *core.Thing, tag string) {
	c.m.Lock()
	defer c.m.Unlock()
	if !t.HasQuestTag(tag) {
		t.QuestTags = append(t.QuestTags, tag)
	}
	c.Things[t.ID] = t
	c.Tagged[tag] = appendUnique(c.Tagged[tag], t)
}

// ByTag returns the things carrying tag in tagging order.
func (c *ThingCache) ByTag(tag string) []*core.Thing {
	c.m.Lock()
	defer c.m.Unlock()
	return append([]*core.Thing(nil), c.Tagged[tag]...)
}

// Len returns the number of cached things.
func (c *ThingCache) Len() int {
	c.m.Lock()
	defer c.m.Unlock()
	return len(c.Things)
}

func appendUnique(list []*core.Thing, t *core.Thing) []*core.Thing {
	for _, existing := range list {
		if existing == t {
			return list
		}
	}
	return append(list, t)
}
