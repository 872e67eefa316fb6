package metrics

const (
	LabelRule     = "rule"
	LabelKind     = "kind"
	LabelResult   = "result"
	LabelReason   = "reason"
	LabelOrigin   = "origin"
	LabelEvent    = "event"
	LabelResource = "resource"
)

const (
	ResultValid   = "valid"
	ResultInvalid = "invalid"
)

// reasons a consensus event is dropped by the epoch manager
const (
	DropReasonStaleEpoch = "stale_epoch"
	DropReasonQueueFull  = "queue_full"
	DropReasonSuperseded = "superseded"
)
