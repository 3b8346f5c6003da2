// Package zimsearch provides offline knowledge-base search across a
// directory of read-only archive packs. A query fans out over every
// archive, each archive is searched through its full-text index (or a
// bounded title scan when no index exists), results are filtered for
// English content, and the per-archive hit lists are merged and capped.
//
// This package contains domain types and interfaces following Ben
// Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., sqlite/,
// htmltomarkdown/) or their concern (e.g., fs/, search/).
package zimsearch
