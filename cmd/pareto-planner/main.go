package main

import (
	"encoding/json"
	"flag"
	"math/rand"
	"os"
	"time"

	easy "git.fiblab.net/utils/logrus-easy-formatter"
	"github.com/sirupsen/logrus"

	paretoplanner "github.com/urban-transit-lab/pareto-planner"
	"github.com/urban-transit-lab/pareto-planner/config"
)

var (
	configPath = flag.String("config", "config.yml", "configuration file path")
	origin     = flag.String("origin", "", "origin stop id or \"lat,lon\"")
	dest       = flag.String("dest", "", "destination stop id or \"lat,lon\"")
	findStop   = flag.String("find-stop", "", "search stops by name and exit")
	outPath    = flag.String("out", "", "write result JSON to file (default stdout)")
	seed       = flag.Int64("seed", 0, "random seed (0 uses current time)")
	logLevel   = flag.String("log-level", "info", "log level [debug, info, warn, error, fatal, panic]")

	LOG_LEVELS = map[string]logrus.Level{
		"debug": logrus.DebugLevel,
		"info":  logrus.InfoLevel,
		"warn":  logrus.WarnLevel,
		"error": logrus.ErrorLevel,
		"fatal": logrus.FatalLevel,
		"panic": logrus.PanicLevel,
	}
)

func main() {
	logrus.SetFormatter(&easy.Formatter{
		TimestampFormat: "2006-01-02 15:04:05.0000",
		LogFormat:       "[%module%] [%time%] [%lvl%] %msg%\n",
	})
	flag.Parse()
	if level, ok := LOG_LEVELS[*logLevel]; ok {
		logrus.SetLevel(level)
	} else {
		logrus.Fatalf("invalid log level: %s", *logLevel)
	}
	if *findStop == "" && (*origin == "" || *dest == "") {
		logrus.Fatal("both -origin and -dest are required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}

	planner, err := paretoplanner.New(cfg)
	if err != nil {
		logrus.Fatalf("build planner: %v", err)
	}

	if *findStop != "" {
		matches := planner.Graph().SearchStopsByName(*findStop, 10)
		if len(matches) == 0 {
			logrus.Fatalf("no stop matches %q", *findStop)
		}
		for _, m := range matches {
			logrus.Infof("%s  %q (%s)", m.NodeID, m.Name, m.Mode)
		}
		return
	}

	s := *seed
	if s == 0 {
		s = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(s))
	logrus.Infof("planning %s -> %s (seed %d)", *origin, *dest, s)

	result, err := planner.Plan(rng, *origin, *dest)
	if err != nil {
		logrus.Fatalf("plan: %v", err)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logrus.Fatalf("encode result: %v", err)
	}
	data = append(data, '\n')
	if *outPath == "" {
		os.Stdout.Write(data)
		return
	}
	if err := os.WriteFile(*outPath, data, 0o644); err != nil {
		logrus.Fatalf("write %s: %v", *outPath, err)
	}
	logrus.Infof("wrote %d solutions to %s", len(result.Solutions), *outPath)
}
