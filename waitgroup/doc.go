// Package waitgroup provides a counting barrier, grounded on bongo's
// own wait_group: a plain mutex+condition-variable pair rather than this
// module's channel core, since waiting for a counter to reach zero needs
// no FIFO ordering or select-compatibility, just a broadcast wakeup.
package waitgroup
