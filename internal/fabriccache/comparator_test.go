package fabriccache

import (
	"errors"
	"testing"
)

func TestCompareIntegerRange(t *testing.T) {
	cmp, err := Compare(ShardRangeInteger, "100", "50")
	if err != nil || cmp != 1 {
		t.Fatalf("Compare(100,50) = %d, %v", cmp, err)
	}
}

func TestCompareDateTimeRejectsMalformed(t *testing.T) {
	if _, err := Compare(ShardRangeDateTime, "not-a-date", "2020-01-01 00:00:00"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for malformed datetime, got %v", err)
	}
}

func TestCompareDateTimeOrdering(t *testing.T) {
	cmp, err := Compare(ShardRangeDateTime, "2021-06-01 00:00:00", "2020-01-01 00:00:00")
	if err != nil || cmp != 1 {
		t.Fatalf("Compare = %d, %v", cmp, err)
	}
}

func TestCompareHash(t *testing.T) {
	a := "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	b := "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaab"
	cmp, err := Compare(ShardHash, a, b)
	if err != nil || cmp != -1 {
		t.Fatalf("Compare(hash) = %d, %v", cmp, err)
	}
}

func TestCompareStringRange(t *testing.T) {
	cmp, err := Compare(ShardRangeString, "alpha", "beta")
	if err != nil || cmp != -1 {
		t.Fatalf("Compare(string) = %d, %v", cmp, err)
	}
}
