package pareto

import (
	"reflect"
	"testing"
)

func base() []Cost {
	return []Cost{{1, 5}, {2, 4}, {4, 3}, {7, 1}}
}

func TestCompare(t *testing.T) {
	cost := Cost{4, 7}
	cases := []struct {
		name string
		c    Cost
		want Ordering
	}{
		{"less", Cost{3, 5}, Less},
		{"greater", Cost{5, 9}, Greater},
		{"equal", Cost{4, 7}, Equal},
		{"one elem less", Cost{4, 6}, Less},
		{"one elem greater", Cost{5, 7}, Greater},
		{"incomparable", Cost{3, 8}, Incomparable},
		{"other incomparable", Cost{5, 6}, Incomparable},
	}
	for _, c := range cases {
		if got := Compare(c.c, cost); got != c.want {
			t.Errorf("%s: expected %v, got %v", c.name, c.want, got)
		}
	}
}

func TestInsertIncomparableInTheMiddle(t *testing.T) {
	got := Insert(base(), Cost{5, 2})
	want := []Cost{{1, 5}, {2, 4}, {4, 3}, {5, 2}, {7, 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestInsertDominatedLeavesListUnchanged(t *testing.T) {
	got := Insert(base(), Cost{4, 4})
	if !reflect.DeepEqual(got, base()) {
		t.Fatalf("got %v, want unchanged %v", got, base())
	}
}

func TestInsertPrepended(t *testing.T) {
	got := Insert(base(), Cost{0, 6})
	want := []Cost{{0, 6}, {1, 5}, {2, 4}, {4, 3}, {7, 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestInsertGreaterThanAllExistingAppended(t *testing.T) {
	got := Insert(base(), Cost{8, 0})
	want := []Cost{{1, 5}, {2, 4}, {4, 3}, {7, 1}, {8, 0}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestInsertGreaterThanAllExistingNoOp(t *testing.T) {
	got := Insert(base(), Cost{8, 6})
	if !reflect.DeepEqual(got, base()) {
		t.Fatalf("got %v, want unchanged %v", got, base())
	}
}

func TestInsertLessThanAnExistingElement(t *testing.T) {
	got := Insert(base(), Cost{3, 2})
	want := []Cost{{1, 5}, {2, 4}, {3, 2}, {7, 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
