package domain

// StoreStats is a snapshot of record counts, used by the health report.
type StoreStats struct {
	Users         int64
	Tasks         int64
	Comments      int64
	TasksByStatus map[TaskStatus]int64
}
