package transform

// Collector accumulates the entities of one run in completion order.
type Collector struct {
	entities []Entity
}

// Append adds an entity.
func (c *Collector) Append(e Entity) {
	c.entities = append(c.entities, e)
}

// Snapshot returns the entities collected so far. The slice is a copy;
// the entities are shared.
func (c *Collector) Snapshot() []Entity {
	out := make([]Entity, len(c.entities))
	copy(out, c.entities)

	return out
}

// Len returns the number of collected entities.
func (c *Collector) Len() int {
	return len(c.entities)
}
