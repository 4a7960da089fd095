// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Ingestion fans documents out to a bounded worker pool; search fans a
// query out to every store and concatenates the answers in store order.
package services
