package role

import "testing"

func TestParse(t *testing.T) {
	for _, r := range All() {
		got, err := Parse(string(r))
		if err != nil || got != r {
			t.Fatalf("parse %s: got %q err=%v", r, got, err)
		}
	}
	if _, err := Parse("ROOT"); err == nil {
		t.Fatalf("expected error for unknown role")
	}
	if _, err := Parse("admin"); err == nil {
		t.Fatalf("expected role parsing to be case sensitive")
	}
}

func TestSet(t *testing.T) {
	s := Of(Admin, Operator)
	if !s.Contains(Admin) || s.Contains(Customer) {
		t.Fatalf("unexpected membership for %v", s)
	}
	if Of().Contains(Admin) {
		t.Fatalf("empty set must authorize nobody")
	}
	for _, r := range All() {
		if !Any().Contains(r) {
			t.Fatalf("Any() missing %s", r)
		}
	}
}
