// Package domain contains the core learning entities and value objects of the
// scheduler: the grade a learner gives an item and the per-item progress record
// the engine reads and produces. It is independent of any delivery mechanism.
package domain
