package domain

// Event kinds carried by a flush payload
const (
	EventIncident = "incident"
	EventResolved = "resolved"
	EventMixed    = "mixed"
)

// Status labels mirroring the event kind, kept for consumer compatibility
const (
	StatusNodeDown      = "node-down"
	StatusNodeRecovered = "node-recovered"
	StatusNodeChange    = "node-change"
)

// Payload is the record dispatched to every sink on a flush. The field names
// are wire format consumed by the downstream automations and must not change.
type Payload struct {
	Cluster          string `json:"cluster"`
	Event            string `json:"event"`
	Status           string `json:"status"`
	NodesDown        string `json:"nodes_down"`
	NodesDownCurrent string `json:"nodes_down_current"`
	NodesRecovered   string `json:"nodes_recovered"`
	Timestamp        string `json:"timestamp"`
	NodesTable       string `json:"nodes_table"`
}

// OutcomeKind tags the result of a single sink dispatch
type OutcomeKind string

const (
	// OutcomeSkipped means the sink had no complete credential set
	OutcomeSkipped OutcomeKind = "skipped"

	// OutcomeDelivered means the sink accepted the payload with a 2xx response
	OutcomeDelivered OutcomeKind = "delivered"

	// OutcomeFailed means every attempt ended in a transport error or
	// non-success status
	OutcomeFailed OutcomeKind = "failed"
)

// Outcome is the tagged result of one sink dispatch. Err is set only for
// OutcomeFailed and carries the last attempt's failure.
type Outcome struct {
	Kind OutcomeKind
	Err  error
}

// Delivered reports whether the payload reached the sink.
func (o Outcome) Delivered() bool {
	return o.Kind == OutcomeDelivered
}

// Summary holds the independent per-sink outcomes of one flush dispatch
type Summary struct {
	Airflow Outcome
	GitHub  Outcome
}
