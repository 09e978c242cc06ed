// Package testutils ports the teacher repo's assertion helpers from
// big.Int/uint16-oriented comparisons to this module's own value types
// (byte slices, words, naturals), and adds go-spew-backed structured
// dumps for the curve/field/session values this module's tests compare.
package testutils

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"golang.org/x/exp/slices"
)

// AssertIntsEqual checks if two integers are equal. If not, it reports a test
// failure.
func AssertIntsEqual(t *testing.T, description string, expected int, actual int) {
	if expected != actual {
		t.Errorf(
			"unexpected %s\nexpected: %v\nactual:   %v\n",
			description,
			expected,
			actual,
		)
	}
}

// AssertBytesEqual checks if the two byte slices are equal. If not, it
// reports a test failure, dumping a hex diff via testBytesEqual.
func AssertBytesEqual(t *testing.T, expectedBytes []byte, actualBytes []byte) {
	err := testBytesEqual(expectedBytes, actualBytes)

	if err != nil {
		t.Error(err)
	}
}

// AssertStringsEqual checks if two strings are equal. If not, it reports a test
// failure.
func AssertStringsEqual(t *testing.T, description string, expected string, actual string) {
	if expected != actual {
		t.Errorf(
			"unexpected %s\nexpected: %s\nactual:   %s\n",
			description,
			expected,
			actual,
		)
	}
}

// AssertBoolsEqual checks if two booleans are equal. If not, it reports a test
// failure.
func AssertBoolsEqual(t *testing.T, description string, expected bool, actual bool) {
	if expected != actual {
		t.Errorf(
			"unexpected %s\nexpected: %v\nactual:   %v\n",
			description,
			expected,
			actual,
		)
	}
}

// AssertNoError fails the test if err != nil.
func AssertNoError(t *testing.T, description string, err error) {
	if err != nil {
		t.Errorf("unexpected error for %s: %v", description, err)
	}
}

// AssertIsError fails the test unless errors.Is(err, want).
func AssertIsError(t *testing.T, description string, err, want error) {
	if err == nil || !isWrapped(err, want) {
		t.Errorf("expected %s to fail with %v, got %v", description, want, err)
	}
}

func isWrapped(err, target error) bool {
	for err != nil {
		if err == target {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

func testBytesEqual(expectedBytes []byte, actualBytes []byte) error {
	minLen := len(expectedBytes)
	diffCount := 0
	if actualLen := len(actualBytes); actualLen < minLen {
		diffCount = minLen - actualLen
		minLen = actualLen
	} else {
		diffCount = actualLen - minLen
	}

	for i := 0; i < minLen; i++ {
		if expectedBytes[i] != actualBytes[i] {
			diffCount++
		}
	}

	if diffCount != 0 {
		return fmt.Errorf(
			"byte slices differ in %v places\nexpected: [%x]\nactual:   [%x]",
			diffCount,
			expectedBytes,
			actualBytes,
		)
	}

	return nil
}

// AssertWordSlicesEqual checks word-natural equality, the generalisation
// of the teacher's AssertUint16SlicesEqual to this module's Word type.
func AssertWordSlicesEqual[T ~uint64](
	t *testing.T,
	description string,
	expected []T,
	actual []T,
) {
	if !slices.Equal(expected, actual) {
		t.Errorf(
			"unexpected %s\nexpected: %v\nactual:   %v\n",
			description,
			expected,
			actual,
		)
	}
}

// AssertDeepEqual checks deep equality, dumping a go-spew rendering of
// both sides on mismatch — plain %v is too flat for nested curve/session
// structs.
func AssertDeepEqual(
	t *testing.T,
	description string,
	expected any,
	actual any,
) {
	if !reflect.DeepEqual(expected, actual) {
		t.Errorf(
			"unexpected %s\nexpected:\n%s\nactual:\n%s\n",
			description,
			spew.Sdump(expected),
			spew.Sdump(actual),
		)
	}
}
