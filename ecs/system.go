package ecs

// System is one step of a frame. Exported Query and Singleton fields are
// wired up by Scheduler.Register; any other fields are the system's own state
// and persist between frames. Commands queued during Execute are applied as
// soon as it returns.
type System interface {
	Execute(frame *UpdateFrame)
}

// SystemFunc adapts a plain function to the System interface. It has no
// queries of its own, so it reads storage through frame.Storage.
type SystemFunc func(frame *UpdateFrame)

func (f SystemFunc) Execute(frame *UpdateFrame) {
	f(frame)
}
