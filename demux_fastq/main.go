package main

import (
	"flag"
	"log"
	"os"
	"runtime"
	"runtime/pprof"

	"go.uber.org/zap"
)

func main() {

	var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to `file`")
	var memprofile = flag.String("memprofile", "", "write memory profile to `file`")
	var configFile = flag.String("configfile", "", "read configuration from `file`")

	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			logger.Fatal("could not create CPU profile", zap.Error(err))
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			logger.Fatal("could not start CPU profile", zap.Error(err))
		}
		defer pprof.StopCPUProfile()
	}

	if *configFile == "" {
		logger.Fatal("Must supply -configfile parameter")
	}

	logger.Info("Reading configuration", zap.String("file", *configFile))
	config, err := readConfigFile(*configFile)
	if err != nil {
		logger.Fatal("Could not read config file", zap.Error(err))
	}

	logger.Info("Starting demux", zap.Int("inputs", len(config.Inputs)), zap.Int("barcodes", len(config.Destinations)))
	stats, err := demux(config, logger)
	if err != nil {
		logger.Fatal("demux failed", zap.Error(err))
	}
	logger.Info("done",
		zap.Int("records", stats.Records),
		zap.Int("matched", stats.Matched),
		zap.Int("unmatched", stats.Unmatched),
	)

	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		if err != nil {
			logger.Fatal("could not create memory profile", zap.Error(err))
		}
		defer f.Close()
		runtime.GC() // get up-to-date statistics
		if err := pprof.WriteHeapProfile(f); err != nil {
			logger.Fatal("could not write memory profile", zap.Error(err))
		}
	}

}
