package query

import (
	"reflect"
	"sort"
	"testing"
	"time"
)

func seq(from, to int) []int {
	var out []int
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}

func TestShuffleDeterministic(t *testing.T) {
	in := seq(2, 200)
	a := Shuffle("2026-10-17|q=", in)
	b := Shuffle("2026-10-17|q=", in)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same key produced different permutations")
	}

	reversed := append([]int(nil), in...)
	sort.Sort(sort.Reverse(sort.IntSlice(reversed)))
	if c := Shuffle("2026-10-17|q=", reversed); !reflect.DeepEqual(a, c) {
		t.Fatalf("permutation depends on input order")
	}
	if reflect.DeepEqual(a, in) {
		t.Fatalf("shuffle left a 199 element list untouched")
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	in := []int{9, 3, 3, 17, 2, 40}
	out := Shuffle("seed", in)
	if !reflect.DeepEqual(in, []int{9, 3, 3, 17, 2, 40}) {
		t.Fatalf("input was modified")
	}
	sorted := append([]int(nil), out...)
	sort.Ints(sorted)
	if !reflect.DeepEqual(sorted, []int{2, 3, 3, 9, 17, 40}) {
		t.Fatalf("not a permutation: %v", out)
	}
}

func TestShuffleKeyChangesOrder(t *testing.T) {
	in := seq(2, 60)
	if reflect.DeepEqual(Shuffle("2026-10-17", in), Shuffle("2026-10-18", in)) {
		t.Fatalf("different seeds gave the same order")
	}
}

func TestShuffleSmallInputs(t *testing.T) {
	if got := Shuffle("k", nil); len(got) != 0 {
		t.Fatalf("unexpected %v", got)
	}
	if got := Shuffle("k", []int{5}); !reflect.DeepEqual(got, []int{5}) {
		t.Fatalf("unexpected %v", got)
	}
}

func TestMulberry32Range(t *testing.T) {
	next := Mulberry32(HashSeed("range"))
	for i := 0; i < 10000; i++ {
		if v := next(); v < 0 || v >= 1 {
			t.Fatalf("value out of range: %v", v)
		}
	}
}

func TestDaySeed(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	now := time.Date(2026, 10, 18, 3, 0, 0, 0, loc)
	if got := DaySeed(now); got != "2026-10-17" {
		t.Fatalf("want UTC day, got %s", got)
	}
}
