package ecs

// Commands provides a buffer for deferred ECS operations that are executed
// after the queuing system returns.
// This prevents structural changes to the ECS storage during query iteration.
type Commands struct {
	spawns  []spawnCommand
	deletes []EntityId
	defers  []deferCommand
}

func newCommands() *Commands {
	return &Commands{}
}

type deferCommand struct {
	fn func()
}

type spawnCommand struct {
	components []any
	done       func(EntityId)
}

// Defer queues a function execution operation.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, deferCommand{fn: fn})
}

// Spawn queues an entity spawn operation with the given components.
func (c *Commands) Spawn(components ...any) {
	c.spawns = append(c.spawns, spawnCommand{components: components})
}

// SpawnThen queues a spawn and calls done with the new id once it exists.
func (c *Commands) SpawnThen(done func(EntityId), components ...any) {
	c.spawns = append(c.spawns, spawnCommand{components: components, done: done})
}

// Delete queues an entity deletion operation.
// Deleting the same entity twice, or a stale id, is a no-op.
func (c *Commands) Delete(entity EntityId) {
	c.deletes = append(c.deletes, entity)
}

// Pending reports whether any operation is queued.
func (c *Commands) Pending() bool {
	return len(c.spawns)+len(c.deletes)+len(c.defers) > 0
}

// Flush flushes all commands to the provided storage, reseting the buffer state
func (c *Commands) Flush(storage *Storage) {
	for _, cmd := range c.deletes {
		storage.Delete(cmd)
	}

	for _, cmd := range c.spawns {
		id := storage.Spawn(cmd.components...)
		if cmd.done != nil {
			cmd.done(id)
		}
	}

	for _, df := range c.defers {
		df.fn()
	}

	c.spawns = c.spawns[:0]
	c.deletes = c.deletes[:0]
	c.defers = c.defers[:0]
}
