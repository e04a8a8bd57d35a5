// Package testutil provides utilities for testing texmerge components.
//
// Key components:
//   - TestEnvironment: isolated directories for templates, records,
//     outputs and XDG locations, cleaned up with the test
//   - FakeCompiler: a shell script standing in for pdflatex
//   - File assertions used across the batch and command tests
//
// All test data is defined inline, not in external files.
package testutil
