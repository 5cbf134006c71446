// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ezrec/vcpu/emulator"
)

func main() {
	var compile string
	var dump bool
	var verbose bool

	flag.StringVar(&compile, "c", "", ".s file to assemble and run")
	flag.BoolVar(&dump, "d", false, "Dump CPU state on exit")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(compile) == 0 {
		log.Fatalf("%v: -c is required", os.Args[0])
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose

	inf, err := os.Open(compile)
	if err != nil {
		log.Fatalf("%v: %v", compile, err)
	}
	defer inf.Close()

	emu.Program, err = emu.Assembler().Parse(inf)
	if err != nil {
		log.Fatalf("%v: %v", compile, err)
	}

	err = emu.Reset()
	if err != nil {
		log.Fatal(err)
	}

	err = emu.Run()
	if dump {
		fmt.Print(emu.Cpu.String())
	}
	if err != nil {
		log.Fatalf("%v: %v", compile, err)
	}
}
