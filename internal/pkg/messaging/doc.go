// Package messaging provides a broker-agnostic API for publishing domain
// events.
//
// Use-case code depends on Publisher only; the broker (NATS, Kafka or NSQ) is
// picked at start-up by NewFromDriver.
package messaging
