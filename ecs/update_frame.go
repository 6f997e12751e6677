package ecs

// UpdateFrame is what a system sees during one execution step.
type UpdateFrame struct {
	Tick      uint64
	DeltaTime float64
	Commands  *Commands
	Storage   *Storage
	Globals   *Globals
}

func newUpdateFrame(tick uint64, dt float64, storage *Storage, globals *Globals) *UpdateFrame {
	return &UpdateFrame{
		Tick:      tick,
		DeltaTime: dt,
		Commands:  newCommands(),
		Storage:   storage,
		Globals:   globals,
	}
}
