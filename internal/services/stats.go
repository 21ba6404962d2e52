package services

// SyncStats accumulates per-pass counters. Counters are local to one job run;
// per-item failures increment Errors and never abort the pass.
type SyncStats struct {
	RecordsProcessed int `json:"records_processed"`
	RecordsCreated   int `json:"records_created"`
	RecordsUpdated   int `json:"records_updated"`
	RecordsUnchanged int `json:"records_unchanged"`
	RecordsSkipped   int `json:"records_skipped"`
	ChatsCreated     int `json:"chats_created"`
	ChatsUpdated     int `json:"chats_updated"`
	ChatsUnchanged   int `json:"chats_unchanged"`
	Errors           int `json:"errors"`
}

// Merge adds the counters of o into s.
func (s *SyncStats) Merge(o SyncStats) {
	s.RecordsProcessed += o.RecordsProcessed
	s.RecordsCreated += o.RecordsCreated
	s.RecordsUpdated += o.RecordsUpdated
	s.RecordsUnchanged += o.RecordsUnchanged
	s.RecordsSkipped += o.RecordsSkipped
	s.ChatsCreated += o.ChatsCreated
	s.ChatsUpdated += o.ChatsUpdated
	s.ChatsUnchanged += o.ChatsUnchanged
	s.Errors += o.Errors
}
