package boot

import "testing"

func TestErrorInterface(t *testing.T) {
	err := &Error{Module: "test", Message: "something went wrong"}
	if got := err.Error(); got != err.Message {
		t.Fatalf("expected Error() to return %q; got %q", err.Message, got)
	}
}
