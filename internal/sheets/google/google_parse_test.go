package google

import (
	"reflect"
	"testing"
)

func TestToStringTable(t *testing.T) {
	in := [][]interface{}{
		{"Mês", "Líder", "Valor"},
		{"Janeiro", " Pedro ", 10.5},
		{"Fevereiro", "Bella", 3},
	}
	want := [][]string{
		{"Mês", "Líder", "Valor"},
		{"Janeiro", "Pedro", "10.5"},
		{"Fevereiro", "Bella", "3"},
	}
	if got := toStringTable(in); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestToAnyTableRoundTrip(t *testing.T) {
	in := [][]string{{"a", "b"}, {"c"}}
	got := toStringTable(toAnyTable(in))
	if !reflect.DeepEqual(got, in) {
		t.Fatalf("got %v, want %v", got, in)
	}
}
