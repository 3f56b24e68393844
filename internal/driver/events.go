package driver

// Stage identifies one pipeline phase of a compilation.
type Stage uint8

const (
	StageQueued Stage = iota
	StageLoad
	StageLink
	StageExpand
	StageGenerate
)

// Status reports how far a file has moved through a stage.
type Status uint8

const (
	StatusQueued Status = iota
	StatusWorking
	StatusDone
	StatusError
)

// Event is one progress notification from a compilation. File is the
// entry path the event belongs to.
type Event struct {
	File   string
	Stage  Stage
	Status Status
}

// Observer receives progress events. Observers run on the compiling
// goroutine and must not block.
type Observer func(Event)

func (o Observer) emit(file string, stage Stage, status Status) {
	if o != nil {
		o(Event{File: file, Stage: stage, Status: status})
	}
}
