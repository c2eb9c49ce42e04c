package shared

// Task types
const (
	TypeReconcileLikeCounts = "likes:reconcile_counts"
)

// Queues
const (
	QueueDefault     = "default"
	QueueMaintenance = "low"
)

// ReconcileLikesPayload is the payload of TypeReconcileLikeCounts. An empty
// Kinds reconciles every likeable kind.
type ReconcileLikesPayload struct {
	Kinds []string `json:"kinds,omitempty"`
}
