// Package harness runs YAML scenarios against carlog end to end.
//
// A scenario is a sequence of runs against one fresh store. Each step
// writes its own source document, runs the engine with the step's command,
// and appends the text report to the scenario output. After the last step
// the assertions are evaluated against the output, the findings and the
// final row counts.
//
// # Scenario Format
//
//	name: payment_mismatch
//	description: "An overpaid fuel event is reported"
//	steps:
//	  - command: run            # run | reconcile | check
//	    source_format: json     # json (default) | yaml
//	    source: |
//	      {"fuel": [["2023-01-01", 1000, null, 40, 1.5, 61, true]]}
//	  - command: check
//	assertions:
//	  - type: output_contains
//	    line: "2023-01-01 1000 you paid 61.000 instead of 60.000"
//	  - type: finding_count
//	    kind: payment
//	    count: 2
//	  - type: row_count
//	    table: fuel
//	    count: 1
//
// A step without a source runs with no source file present. A step that
// sets expect_error must fail; any other failing step fails the scenario.
//
// # Golden Files
//
// RunWithGolden compares the combined text output with
// testdata/golden/<name>.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
