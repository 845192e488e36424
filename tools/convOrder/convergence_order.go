package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/tdma/heat"
)

var (
	csvFile = "convergence.csv"
	levels  = "10,20,40,80,160"
)

func main() {
	csvFilePtr := flag.String("csvFile", csvFile, "output file for the convergence study")
	levelsPtr := flag.String("levels", levels, "comma separated number of volumes for each mesh")
	kPtr := flag.Float64("k", 1, "thermal conductivity")
	sPtr := flag.Float64("S", 1, "volumetric heat source")
	lPtr := flag.Float64("L", 1, "domain length")
	flag.Parse()
	var (
		nVols []int
		err   error
		cs    *heat.ConvergenceStudy
	)
	if nVols, err = parseLevels(*levelsPtr); err != nil {
		fmt.Printf("error: %s\n", err.Error())
		flag.Usage()
		os.Exit(1)
	}
	if cs, err = heat.ManufacturedStudy(nVols, *kPtr, *sPtr, *lPtr); err != nil {
		panic(err)
	}
	rmsOrd, maxOrd := cs.Orders()
	fmt.Printf("Title = %s\n", cs.Title)
	for i := range cs.NumVolumes {
		fmt.Printf("%d, %v, %v, %6.3f, %6.3f\n",
			cs.NumVolumes[i], cs.RMS[i], cs.MAX[i], rmsOrd[i], maxOrd[i])
	}
	f, err := os.Create(*csvFilePtr)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	if err = cs.WriteCSV(w); err != nil {
		panic(err)
	}
	if err = w.Flush(); err != nil {
		panic(err)
	}
	fmt.Printf("Output file: %v\n", *csvFilePtr)
}

func parseLevels(s string) (nVols []int, err error) {
	for _, tok := range strings.Split(s, ",") {
		var n int
		if n, err = strconv.Atoi(strings.TrimSpace(tok)); err != nil {
			return nil, fmt.Errorf("bad mesh level %q: %w", tok, err)
		}
		nVols = append(nVols, n)
	}
	return
}
