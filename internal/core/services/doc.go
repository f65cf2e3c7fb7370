// Package services implements the driving ports on top of the driven ones.
// It holds the indexing pipeline (extract, chunk, embed, persist) and the
// retrieve-then-generate query pipeline, plus the summary cache.
package services
