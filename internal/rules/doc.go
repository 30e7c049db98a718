// Package rules implements the forward-chaining classification engine.
//
// Rules are data: each names the entity type it ranges over, the label it
// produces, the labels it reads, and a pure match function. They are
// partitioned into two tiers. Tier 1 rules read raw attributes only;
// Tier 2 rules may also read labels produced by Tier 1 in the same pass.
//
// A pass is a batch re-derivation:
//
//  1. Clear every label on entities whose type is in scope
//  2. Evaluate all Tier 1 rules, asserting labels
//  3. Evaluate all Tier 2 rules against the freshly asserted Tier 1 labels
//  4. Report how many labels were asserted
//
// Because step 1 forgets all prior output, evaluating an unchanged store
// twice yields identical labels and an identical count. The engine has no
// notion of ticks; the scheduler owns the cadence.
package rules
