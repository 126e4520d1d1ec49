// Package knowledge implements the knowledge base: resource ingestion
// and similarity retrieval over PostgreSQL + pgvector.
//
// Ingestion normalizes a document, splits it into sections, stores each
// qualifying section as a resource, and embeds the section's sentence
// chunks, all within one transaction per document. Retrieval embeds a
// query and returns stored chunks above a cosine similarity threshold,
// most similar first.
package knowledge
