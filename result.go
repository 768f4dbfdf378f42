package migrate

// Result summarizes one Manager operation. Applied counts migrations whose
// transaction committed in this run (forward or reverse); Failed counts the
// migration that aborted the run plus, during reverts, history entries with
// no matching migration.
type Result struct {
	Applied int
	Failed  int
}

// IsSuccess reports whether the operation completed without failures.
func (r Result) IsSuccess() bool { return r.Failed == 0 }

// Status is the engine's read-only view of the database: the highest applied
// version (0 when nothing is applied), every history entry ascending by
// version, every supplied migration not yet applied ascending by version,
// and the size of the supplied set.
type Status struct {
	CurrentVersion int64
	Applied        []HistoryEntry
	Pending        []*Migration
	Total          int
}
