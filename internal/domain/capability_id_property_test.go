package domain

import (
	"strings"
	"testing"

	"pgregory.net/rapid"
)

// genValidCapabilityID generates well-formed capability identifiers
func genValidCapabilityID() *rapid.Generator[string] {
	return rapid.Custom(func(t *rapid.T) string {
		head := rapid.StringMatching(`[a-z][a-z0-9_]{0,10}`).Draw(t, "head")
		rest := rapid.SliceOfN(rapid.StringMatching(`[a-z0-9][a-z0-9_]{0,10}`), 1, 5).Draw(t, "rest")
		return head + "." + strings.Join(rest, ".")
	})
}

// TestCapabilityID_ValidIDsAlwaysValidate checks generated identifiers pass validation
func TestCapabilityID_ValidIDsAlwaysValidate(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		raw := genValidCapabilityID().Draw(t, "capability")

		id, err := NewCapabilityID(raw)
		if err != nil {
			t.Fatalf("valid capability %q should not produce error: %v", raw, err)
		}
		if id.String() != raw {
			t.Fatalf("String() = %q, want %q", id.String(), raw)
		}
		if !strings.HasPrefix(raw, id.Namespace()+".") {
			t.Fatalf("Namespace() = %q is not a prefix of %q", id.Namespace(), raw)
		}
	})
}

// TestCapabilityID_AlwaysSlugsToTaskID checks every valid capability maps to a valid task ID
func TestCapabilityID_AlwaysSlugsToTaskID(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		raw := genValidCapabilityID().Draw(t, "capability")

		id, err := TaskIDFromParts("impl", raw)
		if err != nil {
			t.Fatalf("capability %q did not slug to a task ID: %v", raw, err)
		}
		if err := id.Validate(); err != nil {
			t.Fatalf("slugged task ID %q is invalid: %v", id, err)
		}
	})
}

// TestCapabilityID_SingleSegmentFails checks identifiers without a dot are rejected
func TestCapabilityID_SingleSegmentFails(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		raw := rapid.StringMatching(`[a-z][a-z0-9_]{0,20}`).Draw(t, "segment")

		err := CapabilityID(raw).Validate()
		if err == nil {
			t.Fatalf("single segment %q should fail validation", raw)
		}
		if !strings.Contains(err.Error(), "at least two") {
			t.Errorf("error should mention segment count: %v", err)
		}
	})
}
