package entity

import "time"

// RecordAudit is one audited remote record: every outbound save payload
// against the same entity/key pair is appended as a new version.
type RecordAudit struct {
	CreationDate time.Time      `bson:"creation_date"`
	EntityName   string         `bson:"entity_name"`
	RecordKey    string         `bson:"record_key"`
	Versions     []AuditVersion `bson:"versions"`
}

// AuditVersion is a single saved payload. IDs are sequential per record.
type AuditVersion struct {
	ID      string `bson:"id"`
	Payload string `bson:"payload"`
}
