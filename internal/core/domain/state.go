package domain

// TaskState represents the lifecycle state of a native build task.
type TaskState string

const (
	// StateUnbuilt indicates no staging has happened yet (or a clean reset it).
	StateUnbuilt TaskState = "Unbuilt"
	// StateStaged indicates the source archive has been extracted.
	StateStaged TaskState = "Staged"
	// StatePatched indicates all resolved patches have been applied.
	StatePatched TaskState = "Patched"
	// StateBuilt indicates the strategy produced its artifacts.
	StateBuilt TaskState = "Built"
)
