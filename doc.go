// Package biketrip predicts Seoul public bike trip durations in whole
// minutes from ten trip features.
//
// A trained standard scaler and a small feed-forward regression network
// are exported to JSON (or gob) once and loaded at startup. Inference is
// pure Go on top of gonum.
//
// # Packages
//
//   - trip: the ten-feature record and its form ranges
//   - inference: load artifacts, standardize, evaluate, truncate
//   - preprocessing, neural: the scaler and the network
//   - evaluation, metrics: offline scoring against labelled trips
//   - sensitivity: one-feature sweeps rendered as PNG charts
//   - server: HTML form and JSON API on gin
//   - config, pkg/log, pkg/errors: viper settings, zerolog logging, typed errors
//
// # Quick Start
//
//	p, err := inference.Load("models/scaler.json", "models/model.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	minutes, err := p.Predict(trip.Default())
//	// minutes == 50
//
// The command in cmd/biketrip serves the form and API, and offers
// predict, evaluate and sweep subcommands.
package biketrip
