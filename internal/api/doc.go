// Package api implements the JSON HTTP surface for the knowledge base.
//
// Routes:
//
//	POST /api/v1/resources  →  ingest a document into the knowledge base
//	GET  /api/v1/search     →  similarity search over stored embeddings
//	GET  /api/v1/stats      →  resource and embedding counts
//	GET  /health            →  liveness probe
//	GET  /ready             →  readiness probe (pings the database)
//
// Handlers depend on small consumer-defined interfaces so tests can
// substitute fakes without a database.
package api
