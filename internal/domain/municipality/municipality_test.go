package municipality

import (
	"reflect"
	"testing"
)

func TestGroupByWilaya(t *testing.T) {
	records := []Record{
		{ID: 1, CommuneName: " Bir Mourad Rais ", WilayaName: "Alger "},
		{ID: 2, CommuneName: "Bab El Oued", WilayaName: "Alger"},
		{ID: 3, CommuneName: "Bab El Oued", WilayaName: "Alger"},
		{ID: 4, CommuneName: "Es Senia", WilayaName: "Oran"},
		{ID: 5, CommuneName: "", WilayaName: "Oran"},
	}

	got := GroupByWilaya(records)
	want := map[string][]string{
		"Alger": {"Bab El Oued", "Bir Mourad Rais"},
		"Oran":  {"Es Senia"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GroupByWilaya() = %v, want %v", got, want)
	}
}

func TestGroupByWilaya_Empty(t *testing.T) {
	if got := GroupByWilaya(nil); len(got) != 0 {
		t.Errorf("expected empty map, got %v", got)
	}
}
