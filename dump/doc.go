/*
Package dump provides I/O operations for collected states of the ledger Host.

Host state (contract records along with their storage) can be dumped to the
file system and restored later, for example, to move the ledger to another
database or to reproduce a particular state in tests.

The package works with dumps stored in the file system using human-readable
encoding.
*/
package dump
