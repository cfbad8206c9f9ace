package schema

const ClientEventSchemaTextV1 = `{
	"type": "record",
	"namespace": "catalog",
	"name": "client_event",
	"fields": [
		{"name": "event_type", "type": "string"},
		{"name": "visitor_id", "type": "string"},
		{"name": "query", "type": "string"},
		{"name": "sku", "type": "string"},
		{"name": "occurred_at", "type": "long"}
	]
}`

// ClientEventV1 is the wire shape of one reported client event.
// OccurredAt is unix milliseconds.
type ClientEventV1 struct {
	EventType  string `avro:"event_type"`
	VisitorID  string `avro:"visitor_id"`
	Query      string `avro:"query"`
	SKU        string `avro:"sku"`
	OccurredAt int64  `avro:"occurred_at"`
}
