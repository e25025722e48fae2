package trip

import (
	"reflect"
	"testing"

	"github.com/YuminosukeSato/biketrip/pkg/errors"
)

func TestFromValues(t *testing.T) {
	tests := []struct {
		name    string
		values  []float64
		wantErr bool
	}{
		{"exact arity", []float64{8490, 3.400058, 19, 14, 20, 12, 8.8, 49.0, 0.05, 27.0}, false},
		{"nine values", []float64{8490, 3.400058, 19, 14, 20, 12, 8.8, 49.0, 0.05}, true},
		{"eleven values", []float64{8490, 3.400058, 19, 14, 20, 12, 8.8, 49.0, 0.05, 27.0, 1}, true},
		{"empty", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromValues(tt.values)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FromValues() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, errors.ErrShapeMismatch) {
					t.Errorf("expected ErrShapeMismatch, got %v", err)
				}
				return
			}
			if got != Default() {
				t.Errorf("FromValues() = %+v, want %+v", got, Default())
			}
		})
	}
}

func TestValuesOrder(t *testing.T) {
	f := Default()
	want := [NumFeatures]float64{8490, 3.400058, 19, 14, 20, 12, 8.8, 49.0, 0.05, 27.0}
	if got := f.Values(); !reflect.DeepEqual(got, want) {
		t.Errorf("Values() = %v, want %v", got, want)
	}
	if FromArray(want) != f {
		t.Error("FromArray should invert Values")
	}
}

func TestGetWith(t *testing.T) {
	f := Default()

	v, err := f.Get("Temp")
	if err != nil || v != 8.8 {
		t.Fatalf("Get(Temp) = %v, %v", v, err)
	}

	g, err := f.With("Dust", 80)
	if err != nil {
		t.Fatalf("With() error = %v", err)
	}
	if g.Dust != 80 || f.Dust != 27.0 {
		t.Errorf("With should copy: got %v, original %v", g.Dust, f.Dust)
	}

	if _, err := f.Get("Wind"); err == nil {
		t.Error("expected error for unknown feature")
	}
	if _, err := f.With("Wind", 1); err == nil {
		t.Error("expected error for unknown feature")
	}
}

func TestOutOfRange(t *testing.T) {
	if got := Default().OutOfRange(); len(got) != 0 {
		t.Errorf("defaults should be in range, got %v", got)
	}

	f := Default()
	f.PickupHour = 24
	f.DropoffMinute = -1
	if got, want := f.OutOfRange(), []string{"Phour", "Dmin"}; !reflect.DeepEqual(got, want) {
		t.Errorf("OutOfRange() = %v, want %v", got, want)
	}
}
