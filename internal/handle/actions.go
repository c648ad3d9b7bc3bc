package handle

// Write actions. Callers may pass these wherever a value is accepted; the
// write path unwraps them before type-directed encoding. A bare value is
// equivalent to Deposit.

// Deposit places a value on a handle without overriding other drivers.
type Deposit struct{ Value any }

// Force drives a handle to a value and holds it there until a Release.
type Force struct{ Value any }

// Freeze holds a handle at whatever value it has when the write is issued
// to the native layer. The capture happens at issue time, not at intent
// construction: a deferred Freeze pins the value present at flush.
type Freeze struct{}

// Release cancels an active Force or Freeze.
type Release struct{}
