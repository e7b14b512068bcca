/*
Package observability provides tools for monitoring the intake wizard.

It includes Prometheus metrics for transitions, answer saves and record store
latency, and lifecycle hooks that log and count every persisted transition.
Answer values never leave the engine through these hooks; only field names do.
*/
package observability
