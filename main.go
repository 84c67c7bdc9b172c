package main

import (
	"flag"
	"fmt"
	"log"
	"os"
)

const usage = `usage: wrlmesh [flags] <command> [args]

commands:
  info <file.stl>              print connectivity statistics and validation findings
  convert <in.stl> <out.stl>   read and rewrite an ASCII STL file
  eval <script> <out.stl>      run a scene script and write its single shape as STL

flags:
`

func main() {
	cfg := DefaultConfig()
	flag.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "time limit for a script evaluation")
	flag.IntVar(&cfg.Cells, "cells", cfg.Cells, "marching cubes resolution for solids")
	flag.BoolVar(&cfg.NoWeld, "no-weld", false, "keep solid meshes as unwelded triangle soups")
	recompute := flag.Bool("recompute-normals", false, "convert: replace stored normals with computed ones")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	log.SetFlags(0)
	log.SetPrefix("wrlmesh: ")

	app := NewApp(cfg)
	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	switch args[0] {
	case "info":
		needArgs(args, 2)
		info, err := app.Info(args[1])
		if err != nil {
			log.Fatalf("ERROR | %v", err)
		}
		info.Print(os.Stdout)

	case "convert":
		needArgs(args, 3)
		if err := app.Convert(args[1], args[2], *recompute); err != nil {
			log.Fatalf("ERROR | %v", err)
		}

	case "eval":
		needArgs(args, 3)
		source, err := os.ReadFile(args[1])
		if err != nil {
			log.Fatalf("ERROR | %v", err)
		}
		result, err := app.Export(string(source), args[2])
		for _, w := range result.Warnings {
			log.Printf("warning: %s", w.Message)
		}
		if err != nil {
			for _, e := range result.Errors {
				if e.Line > 0 {
					log.Printf("%s:%d: %s", args[1], e.Line, e.Message)
				} else {
					log.Printf("%s: %s", args[1], e.Message)
				}
			}
			log.Fatalf("ERROR | %v", err)
		}
		for _, m := range result.Meshes {
			log.Printf("wrote %s: %d faces, %d vertices", m.Name, m.Faces, m.Vertices)
		}

	default:
		log.Printf("unknown command %q", args[0])
		flag.Usage()
		os.Exit(2)
	}
}

func needArgs(args []string, n int) {
	if len(args) != n {
		log.Printf("%s takes %d arguments, got %d", args[0], n-1, len(args)-1)
		flag.Usage()
		os.Exit(2)
	}
}
