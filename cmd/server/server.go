package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/vilterp/pysubscript/pkg"
)

var port = flag.Int("port", 9000, "port to listen on")
var host = flag.String("host", "0.0.0.0", "host to listen on")
var configPath = flag.String("config", "", "YAML or JSON config file")
var pythonVersion = flag.String("python-version", "", "target Python version; overrides the config file")
var cacheFile = flag.String("cache", "", "bolt file to cache results in")

func main() {
	// get cmdline flags
	flag.Parse()

	fmt.Println("pysubscript server")

	cfg := pysubscript.DefaultConfig()
	if *configPath != "" {
		loaded, err := pysubscript.LoadConfig(*configPath)
		if err != nil {
			log.Fatalln("failed to load config:", err)
		}
		cfg = loaded
	}
	if *pythonVersion != "" {
		overridden, err := cfg.OverridePythonVersion(*pythonVersion)
		if err != nil {
			log.Fatalln("bad -python-version:", err)
		}
		cfg = overridden
	}
	if *cacheFile != "" {
		cfg.CacheFile = *cacheFile
	}
	cfg.Listen = fmt.Sprintf("%s:%d", *host, *port)

	server, err := pysubscript.NewServer(cfg)
	if err != nil {
		log.Fatalln("failed to start server:", err)
	}

	// graceful shutdown on Ctrl-C
	ctrlCChan := make(chan os.Signal, 1)
	signal.Notify(ctrlCChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctrlCChan
		if err := server.Close(); err != nil {
			log.Println("error closing:", err)
		}
		os.Exit(0)
	}()

	if err := server.ListenAndServe(); err != nil {
		log.Fatal("error listening:", err)
	}
}
