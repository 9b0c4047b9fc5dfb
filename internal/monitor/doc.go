// Package monitor runs the periodic probing loop behind the pingboard panel.
//
// A Loop owns an ordered list of targets and the latest TargetState for each
// of them. It probes every target once per pass, classifies each outcome into
// a Bucket, and hands an Update to a Sink as soon as that target's probe
// completes. It never renders anything itself.
//
// # Lifecycle
//
//	Idle -> Probing -> Idle -> ... -> Stopped
//
// Start launches one background goroutine and returns immediately. Passes
// are separated by Options.Interval, measured from the end of one pass to the
// start of the next, and a pass never starts before every probe of the
// previous one has reported. Refresh cuts the current wait short. Stop (or
// cancelling the context given to Start) ends the loop; after Stop returns no
// further Update reaches the sink.
//
// # Targets
//
// A target's identity is its position in the list, not its string, so the
// same address may appear more than once and each copy gets its own state.
//
// # Classification
//
//	Latency < 100ms   BucketGood
//	Latency >= 100ms  BucketDegraded
//	Slow              BucketDegraded
//	Error or timeout  BucketUnreachable
package monitor
