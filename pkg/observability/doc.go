/*
Package observability provides tools for monitoring the tds engine.

It turns engine lifecycle hooks into Prometheus metrics and structured log lines,
and combines several hook sets into one so both can be attached at once.
*/
package observability
