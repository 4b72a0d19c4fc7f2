package main

import (
	"flag"
	"log"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	"github.com/tliron/glsp/server"

	"github.com/zephyrtronium/calc/internal/lsp"
)

const lsName = "calc"

func main() {
	log.SetFlags(0)
	var (
		verbose int
		logfile string
		debug   bool
	)
	flag.IntVar(&verbose, "v", 0, "log verbosity (0 for errors only, 2 for debug)")
	flag.StringVar(&logfile, "log", "", "log file (default stderr)")
	flag.BoolVar(&debug, "debug", false, "log protocol messages")
	flag.Parse()

	var path *string
	if logfile != "" {
		path = &logfile
	}
	commonlog.Configure(verbose, path)

	h := lsp.NewHandler()
	s := server.NewServer(h.Protocol(), lsName, debug)
	if err := s.RunStdio(); err != nil {
		log.Println("calc-lsp:", err)
		os.Exit(1)
	}
}
