/*
Package session coordinates access to in-progress answer sets.

A quiz answered over several requests is stored one partial answer set at a time.
The Manager serializes the read-modify-write of each set so that concurrent
updates to the same key are never lost.
*/
package session
