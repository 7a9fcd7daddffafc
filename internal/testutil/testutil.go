// Package testutil provides helper functions for testing soliscan components
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/soliscan/soliscan/internal/parser"
)

// ParseTestSource parses Solidity source, failing the test on a fatal error
func ParseTestSource(t *testing.T, source string) *parser.Result {
	t.Helper()
	p := parser.NewParser()
	result, err := p.ParseString(context.Background(), source)
	if err != nil {
		t.Fatalf("Failed to parse test source: %v", err)
	}
	return result
}

// WriteTestFile writes a source file into dir and returns its path
func WriteTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// AssertNoError fails the test if err is not nil
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("Expected error but got nil")
	}
}

// AssertEqual fails the test if expected != actual
func AssertEqual(t *testing.T, expected, actual any) {
	t.Helper()
	if expected != actual {
		t.Errorf("Expected %v, got %v", expected, actual)
	}
}

// AssertTrue fails the test if condition is false
func AssertTrue(t *testing.T, condition bool, msg string) {
	t.Helper()
	if !condition {
		t.Error(msg)
	}
}

// AssertFalse fails the test if condition is true
func AssertFalse(t *testing.T, condition bool, msg string) {
	t.Helper()
	if condition {
		t.Error(msg)
	}
}
