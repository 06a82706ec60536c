// Package ledger implements the append-only trip ledger behind POST /trip.
//
// A Service validates a Submission, computes distance and cost, appends the
// resulting trip.Entry to a Store and then hands it to every Publisher.
// Entries are never updated or deleted; corrections are new entries.
//
// Stores:
//   - MemoryStore keeps entries in process memory
//   - PostgresStore persists to Postgres via pgxpool, schema managed by goose
//   - RedisStore appends to a Redis stream
//
// Publishers:
//   - Hub pushes each entry to websocket feed subscribers
//   - KafkaPublisher emits a trip.logged event
package ledger
