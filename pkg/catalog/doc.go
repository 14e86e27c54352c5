/*
Package catalog normalizes externally supplied zone and focus-persona catalogs.

Catalog sources are untrusted: they may be partial, use alternative field names, or
contain entries that are not objects at all. The resolvers in this package never fail.
Malformed entries are dropped, absent fields default to empty values, and missing
zones or personas are synthesized so that every lookup succeeds.
*/
package catalog
