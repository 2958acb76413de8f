// Package events provides in-process notifications of scheduling decisions.
//
// Handlers that grade, introduce or postpone an item emit a ReviewEvent.
// Subscribers (a review log, metrics, a persistence adapter owned by the
// caller) register with an emitter and never block the scheduling path on
// each other's failures.
package events
