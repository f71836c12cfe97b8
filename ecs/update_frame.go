package ecs

// UpdateFrame is passed to every system during one Scheduler.Once call.
// Tick counts calls to Once, starting at 1.
type UpdateFrame struct {
	Tick      uint64
	DeltaTime float64
	Commands  *Commands
	Storage   *Storage
}

func newUpdateFrame(tick uint64, dt float64, storage *Storage) *UpdateFrame {
	return &UpdateFrame{
		Tick:      tick,
		DeltaTime: dt,
		Commands:  newCommands(),
		Storage:   storage,
	}
}
