/*
Package ports defines the driven ports (interfaces) of the intake wizard.

These interfaces decouple the progress engine from the storage backends, allowing
the same wizard to run over an in-memory map, Redis, an SQL database, or a remote
record store reached over HTTP.

# Key Interfaces

  - RecordStore: creates, reads, patches and lists application records.

RunRecordStoreContract verifies an implementation against the expected behavior.
*/
package ports
