// Command biketrip serves and queries the Seoul bike trip duration model.
//
// Usage:
//
//	biketrip [-config file] [serve]
//	biketrip [-config file] predict [-Distance 8490 ...] [-strict]
//	biketrip [-config file] evaluate -data trips.csv
//	biketrip [-config file] sweep -feature Temp [-from -10 -to 35 -steps 50] -out temp.png
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/YuminosukeSato/biketrip/config"
	"github.com/YuminosukeSato/biketrip/evaluation"
	"github.com/YuminosukeSato/biketrip/inference"
	"github.com/YuminosukeSato/biketrip/pkg/errors"
	"github.com/YuminosukeSato/biketrip/pkg/log"
	"github.com/YuminosukeSato/biketrip/sensitivity"
	"github.com/YuminosukeSato/biketrip/server"
	"github.com/YuminosukeSato/biketrip/trip"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type app struct {
	cfg       config.Config
	logger    log.Logger
	predictor *inference.Predictor
	stdout    io.Writer
}

func run(args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("biketrip", flag.ContinueOnError)
	global.SetOutput(stderr)
	configFile := global.String("config", "", "config file (default .env when present)")
	if err := global.Parse(args); err != nil {
		return 2
	}

	cmd, rest := "serve", global.Args()
	if len(rest) > 0 {
		cmd, rest = rest[0], rest[1:]
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return 1
	}

	logOpts := cfg.LogOptions()
	logOpts.Output = stderr
	zl := log.New(logOpts)
	defer zl.Close()
	logger := zl.With(log.ComponentKey, "cli")

	p, err := inference.Load(cfg.ScalerPath, cfg.ModelPath, inference.WithLogger(zl.With(log.ComponentKey, "inference")))
	if err != nil {
		logger.Error("failed to load model artifacts",
			log.ErrAttrKey, err,
			log.ErrorCodeKey, log.ErrorModelLoad,
			log.PhaseKey, log.PhaseStartup,
		)
		return 1
	}

	a := &app{cfg: cfg, logger: logger, predictor: p, stdout: stdout}

	switch cmd {
	case "serve":
		err = a.serve(rest)
	case "predict":
		err = a.predict(rest)
	case "evaluate":
		err = a.evaluate(rest)
	case "sweep":
		err = a.sweep(rest)
	default:
		fmt.Fprintf(stderr, "unknown command %q (want serve, predict, evaluate or sweep)\n", cmd)
		return 2
	}
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		logger.Error(cmd+" failed", log.ErrAttrKey, err)
		return 1
	}
	return 0
}

func (a *app) serve(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	port := fs.String("port", a.cfg.ServerPort, "listen port")
	if err := fs.Parse(args); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + *port,
		Handler:           server.New(a.predictor, a.logger, server.Options{Env: a.cfg.Env, Debug: !a.cfg.IsProduction()}).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("starting server", "port", *port, "env", a.cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		return errors.Wrap(err, "listen")
	case <-quit:
	}

	a.logger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "server forced to shutdown")
	}
	a.logger.Info("server exiting")
	return nil
}

// featureFlags registers one float flag per feature, defaulting to the
// form values.
func featureFlags(fs *flag.FlagSet) *[trip.NumFeatures]float64 {
	var values [trip.NumFeatures]float64
	defaults := trip.Default().Values()
	for i, name := range trip.FeatureNames {
		fs.Float64Var(&values[i], name, defaults[i], name+" feature value")
	}
	return &values
}

func (a *app) predict(args []string) error {
	fs := flag.NewFlagSet("predict", flag.ContinueOnError)
	values := featureFlags(fs)
	strict := fs.Bool("strict", false, "reject hour and minute values outside the form ranges")
	asJSON := fs.Bool("json", false, "print the result as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	f := trip.FromArray(*values)
	if bad := f.OutOfRange(); *strict && len(bad) > 0 {
		return errors.NewValueError("predict", "out of range: "+strings.Join(bad, ", "))
	}

	minutes, err := a.predictor.Predict(f)
	if err != nil {
		return err
	}
	if *asJSON {
		return json.NewEncoder(a.stdout).Encode(server.PredictResponse{DurationMinutes: minutes})
	}
	_, err = fmt.Fprintf(a.stdout, "The Duration predicted is %d mins\n", minutes)
	return err
}

func (a *app) evaluate(args []string) error {
	fs := flag.NewFlagSet("evaluate", flag.ContinueOnError)
	data := fs.String("data", "", "labelled trips CSV")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *data == "" {
		return errors.NewValueError("evaluate", "-data is required")
	}

	file, err := os.Open(*data)
	if err != nil {
		return errors.Wrap(err, "evaluate")
	}
	defer file.Close()

	start := time.Now()
	samples, err := evaluation.ReadCSV(file)
	if err != nil {
		return err
	}
	report, err := evaluation.Evaluate(a.predictor, samples)
	if err != nil {
		return err
	}

	a.logger.Info("evaluation complete",
		log.OperationKey, log.OperationEvaluate,
		log.SamplesKey, report.Samples,
		log.MSEKey, report.MSE,
		log.RMSEKey, report.RMSE,
		log.MAEKey, report.MAE,
		log.R2ScoreKey, report.R2,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func (a *app) sweep(args []string) error {
	fs := flag.NewFlagSet("sweep", flag.ContinueOnError)
	feature := fs.String("feature", "Temp", "feature to vary")
	from := fs.Float64("from", 0, "interval start (default depends on feature)")
	to := fs.Float64("to", 0, "interval end (default depends on feature)")
	steps := fs.Int("steps", 50, "number of evaluations")
	out := fs.String("out", "", "PNG output path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *out == "" {
		return errors.NewValueError("sweep", "-out is required")
	}

	base := trip.Default()
	lo, hi, err := sensitivity.DefaultInterval(base, *feature)
	if err != nil {
		return err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "from":
			lo = *from
		case "to":
			hi = *to
		}
	})

	points, err := sensitivity.Sweep(a.predictor, base, *feature, lo, hi, *steps)
	if err != nil {
		return err
	}

	file, err := os.Create(*out)
	if err != nil {
		return errors.Wrap(err, "sweep")
	}
	if err := sensitivity.Render(file, points, *feature, sensitivity.DefaultSize, sensitivity.DefaultSize*2/3); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return errors.Wrap(err, "sweep")
	}

	a.logger.Info("sweep written",
		log.OperationKey, log.OperationSweep,
		"feature", *feature,
		log.SamplesKey, len(points),
		log.ArtifactPathKey, *out,
	)
	return nil
}
