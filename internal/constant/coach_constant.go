package constant

const (
	// Watermill topic carrying a dto.PartitionChangedMessage whenever a day's
	// log partition gains a row.
	TopicPartitionChanged = "COACH_PARTITION_CHANGED"

	EventCompletionRecorded = "completion_recorded"

	MessageNoMatchingTasks    = "no matching tasks for this combination"
	MessageCompletionRecorded = "Nice work! Your completion has been recorded."
	MessageCompletionFailed   = "completion was not recorded"
	MessageNoLogsYet          = "no logs yet for this day"

	SessionLocalKey   = "session"
	SessionHeaderName = "X-Session-Token"

	DateLayout = "2006-01-02"
)
