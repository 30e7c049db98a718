// Package harness runs scripted bookstore scenarios against the real
// scheduler, fact store, bus and rule engine.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: premium_discount
//	description: "What this scenario validates"
//	config:
//	  schedule: { ticks: 12, rule_cadence: 5 }
//	entities:
//	  - id: customer_0
//	    type: Customer
//	    attrs: { budget: 300, purchases: [book_0] }
//	actions:
//	  - tick: 3
//	    actor: customer_0
//	    set: { entity: customer_0, attr: budget, value: 80 }
//	  - tick: 4
//	    actor: employee_0
//	    publish: { kind: discount_offer, to: customer_0, payload: { percent: 10 } }
//	  - tick: 5
//	    actor: book_0
//	    fail: "price feed offline"
//	assertions:
//	  - type: has_label
//	    entity: customer_0
//	    label: DiscountEligible
//	  - type: message_count
//	    kind: discount_offer
//	    count: 1
//
// Config is decoded over config.Default with the same strict rules as a
// config file. Every declared entity is driven by a scripted actor, so a
// run of N ticks over E entities performs N*E activations.
//
// # Assertion Types
//
//   - has_label, lacks_label: final label state of one entity
//   - label_count: number of entities carrying a label
//   - message_count: messages published in total, or of one kind
//   - rule_passes: rule engine passes over the run
//   - activation_failures: isolated actor failures over the run
//   - attribute: final value of one attribute
//
// # Deterministic Testing
//
// Runs use a fixed seed (unless the scenario sets one), a fixed run id and
// discarded logs, so the classification Report is byte-stable and can be
// compared against golden files with RunWithGolden.
package harness
