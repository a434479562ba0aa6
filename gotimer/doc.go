// Package gotimer provides a single-shot timer whose firing is observed
// through channel.Chan and channel.Select rather than a native channel,
// so it composes directly with this module's Select. Real wall-clock
// scheduling is left to the runtime's own timer (time.Timer); this
// package only bridges the fire event onto our own channel type.
package gotimer
