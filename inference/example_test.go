package inference_test

import (
	"fmt"

	"github.com/YuminosukeSato/biketrip/inference"
	"github.com/YuminosukeSato/biketrip/pkg/errors"
	"github.com/YuminosukeSato/biketrip/trip"
)

func ExamplePredictor_Predict() {
	p, err := inference.Load("testdata/scaler.json", "testdata/model.json")
	if err != nil {
		fmt.Println(err)
		return
	}

	minutes, err := p.Predict(trip.Default())
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("The Duration predicted is %d mins\n", minutes)
	// Output: The Duration predicted is 50 mins
}

func ExamplePredictor_PredictValues() {
	p, err := inference.Load("testdata/scaler.json", "testdata/model.json")
	if err != nil {
		fmt.Println(err)
		return
	}

	_, err = p.PredictValues([]float64{8490, 3.4, 19, 14, 20, 12, 8.8, 49, 0.05})
	if errors.Is(err, errors.ErrShapeMismatch) {
		fmt.Println(err)
	}
	// Output: biketrip: trip.FromValues: expected 10 features, got 9
}
