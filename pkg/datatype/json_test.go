package datatype

import (
	"reflect"
	"testing"
)

func TestStringListRoundTrip(t *testing.T) {
	j, err := FromStringList([]string{"ADMIN", "VIEWER"})
	if err != nil {
		t.Fatalf("FromStringList error: %v", err)
	}

	list, err := j.StringList()
	if err != nil {
		t.Fatalf("StringList error: %v", err)
	}
	if !reflect.DeepEqual(list, []string{"ADMIN", "VIEWER"}) {
		t.Errorf("round trip mismatch: %v", list)
	}
}

func TestStringListNull(t *testing.T) {
	j, err := FromStringList(nil)
	if err != nil {
		t.Fatalf("FromStringList error: %v", err)
	}
	if !j.IsNull() {
		t.Errorf("nil list should encode as null")
	}

	list, err := j.StringList()
	if err != nil {
		t.Fatalf("StringList error: %v", err)
	}
	if list != nil {
		t.Errorf("null value should decode to nil, got %v", list)
	}
}

func TestStringListEmpty(t *testing.T) {
	j, err := FromStringList([]string{})
	if err != nil {
		t.Fatalf("FromStringList error: %v", err)
	}
	if j.String() != "[]" {
		t.Errorf("empty list should encode as [], got %q", j.String())
	}
}

func TestScanString(t *testing.T) {
	var j JSON
	if err := j.Scan(`["A"]`); err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	list, err := j.StringList()
	if err != nil {
		t.Fatalf("StringList error: %v", err)
	}
	if len(list) != 1 || list[0] != "A" {
		t.Errorf("unexpected list: %v", list)
	}
}
