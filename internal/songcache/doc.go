// Package songcache holds the full index of server catalog paths to catalog
// entries. The index is built by crawling every album on the server and is
// replaced wholesale, never patched. Snapshots can be persisted as JSON or in
// a SQLite database so that a crawl is not needed on every start.
package songcache
